package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/report"
)

// DashboardHandler maneja el resumen del panel y los informes.
type DashboardHandler struct {
	uc *report.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *report.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores del panel.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (conteos por estado, valor total, lotes activos,
// caducidades y valor de mermas de los últimos 30 días).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetWastageReport GET /api/reports/wastage?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *DashboardHandler) GetWastageReport(c *fiber.Ctx) error {
	var in dto.WastageReportRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidBody(c)
	}
	rep, err := h.uc.WastageReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}

// GetStockReport godoc
// @Summary      Informe de stock
// @Description  Sin format devuelve JSON; con format=csv|xlsx|pdf devuelve el fichero adjunto.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        format  query  string  false  "csv, xlsx o pdf"
// @Success      200  {object}  dto.StockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock [get]
func (h *DashboardHandler) GetStockReport(c *fiber.Ctx) error {
	format := c.Query("format")
	if format == "" {
		rep, err := h.uc.StockReport(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(rep)
	}

	file, err := h.uc.Export(c.UserContext(), format)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Attachment(file.Filename)
	return c.Send(file.Content)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/inventory"
)

// InventoryHandler maneja las operaciones que mueven stock, caducidad y reposición.
type InventoryHandler struct {
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
	windowDays    int
}

// NewInventoryHandler construye el handler. windowDays es la ventana de caducidad por defecto.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, replenishment *inventory.ReplenishmentUseCase, windowDays int) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment, windowDays: windowDays}
}

// AddStock godoc
// @Summary      Registrar entrada de un lote
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "itemId, quantity, costPerUnit, purchaseDate, expiryDate, requestId"
// @Success      201   {object}  dto.LedgerResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/add [post]
func (h *InventoryHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.AddStock(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// IssueStock godoc
// @Summary      Salida de stock (FIFO si no se indica lote)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueStockRequest  true  "itemId, quantity, batchId"
// @Success      201   {object}  dto.LedgerResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/issue [post]
func (h *InventoryHandler) IssueStock(c *fiber.Ctx) error {
	var in dto.IssueStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.IssueStock(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// RecordWastage POST /api/stock/wastage
func (h *InventoryHandler) RecordWastage(c *fiber.Ctx) error {
	var in dto.WastageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.RecordWastage(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// AdjustStock POST /api/stock/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.AdjustStock(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Rework POST /api/stock/rework
func (h *InventoryHandler) Rework(c *fiber.Ctx) error {
	var in dto.ReworkRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.Rework(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ExpiryReport godoc
// @Summary      Lotes que caducan pronto y caducados
// @Tags         expiry
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (por defecto EXPIRY_WINDOW_DAYS)"
// @Success      200  {object}  dto.ExpiryReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/expiry [get]
func (h *InventoryHandler) ExpiryReport(c *fiber.Ctx) error {
	rep, err := h.ledger.ExpiryReport(c.UserContext(), c.QueryInt("days", h.windowDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}

// SweepExpired POST /api/expiry/sweep (solo admin): da de baja los lotes caducados.
func (h *InventoryHandler) SweepExpired(c *fiber.Ctx) error {
	res, err := h.ledger.SweepExpired(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Artículos en estado low o critical con la cantidad sugerida de pedido,
//
//	ordenados por urgencia.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Reconcile GET /api/reconcile (solo admin): informa descuadres sin repararlos.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rep, err := h.ledger.Reconcile(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rep)
}

// RepairStock POST /api/reconcile/repair (solo admin).
func (h *InventoryHandler) RepairStock(c *fiber.Ctx) error {
	repaired, err := h.ledger.RepairStock(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"repaired": repaired})
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/inventory"
)

// ItemHandler catálogo de artículos y consultas de lotes y movimientos.
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, category, unit, location, minStockLevel, maxStockLevel"
// @Success      201   {object}  dto.ItemView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar datos de catálogo de un artículo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ItemView
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/items/:id: artículo con lotes FIFO y últimos movimientos.
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/items?category=&status=&q=
func (h *ItemHandler) List(c *fiber.Ctx) error {
	filter := dto.ItemFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("q"),
	}
	items, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// ListBatches GET /api/batches?itemId=&active=true
func (h *ItemHandler) ListBatches(c *fiber.Ctx) error {
	batches, err := h.uc.ListBatches(c.UserContext(), c.Query("itemId"), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(batches), "batches": batches})
}

// ListMovements GET /api/movements?itemId=&batchId=&type=&from=&to=&limit=&offset=
func (h *ItemHandler) ListMovements(c *fiber.Ctx) error {
	q := dto.MovementQuery{
		ItemID:  c.Query("itemId"),
		BatchID: c.Query("batchId"),
		Type:    c.Query("type"),
		From:    c.Query("from"),
		To:      c.Query("to"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 50),
			Offset: c.QueryInt("offset", 0),
		},
	}
	movements, err := h.uc.ListMovements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	q.DefaultPage()
	return c.JSON(fiber.Map{
		"movements": movements,
		"page":      dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/request"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// RequestHandler solicitudes de reposición.
type RequestHandler struct {
	uc *request.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *request.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create POST /api/requests
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	req, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// List GET /api/requests?status=
func (h *RequestHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "requests": list})
}

// Approve POST /api/requests/:id/approve (solo admin).
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.uc.Approve)
}

// Reject POST /api/requests/:id/reject (solo admin).
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.uc.Reject)
}

type reviewFunc = func(ctx context.Context, actor, id string, in dto.ReviewRequest) (*entity.StockRequest, error)

func (h *RequestHandler) review(c *fiber.Ctx, fn reviewFunc) error {
	var in dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	req, err := fn(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(req)
}

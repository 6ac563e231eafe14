package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CreateStockRequest body para POST /api/requests.
type CreateStockRequest struct {
	ItemID   string          `json:"itemId" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Reason   string          `json:"reason" validate:"required"`
}

func (r *CreateStockRequest) Validate() error {
	if strings.TrimSpace(r.ItemID) == "" {
		return invalid("itemId es obligatorio")
	}
	if !r.Quantity.IsPositive() {
		return invalid("quantity debe ser mayor que cero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return invalid("reason es obligatorio")
	}
	return nil
}

// ReviewRequest body para POST /api/requests/:id/approve|reject.
type ReviewRequest struct {
	Note string `json:"note,omitempty"`
}

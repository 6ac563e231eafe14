package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de stock.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusFulfilled = "fulfilled"
)

// StockRequest es una solicitud de reposición. No toca el ledger: una solicitud aprobada
// solo se cumple cuando alguien registra la entrada de stock referenciándola.
type StockRequest struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
	RequestedBy string          `json:"requestedBy"`
	Status      string          `json:"status"`
	ReviewedBy  string          `json:"reviewedBy,omitempty"`
	ReviewNote  string          `json:"reviewNote,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	FulfilledBy string          `json:"fulfilledBy,omitempty"` // ID del movimiento add
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// GetID implementa recordstore.Record.
func (r StockRequest) GetID() string { return r.ID }

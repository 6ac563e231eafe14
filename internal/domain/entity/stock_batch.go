package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusActive   = "active"
	BatchStatusExpired  = "expired"
	BatchStatusConsumed = "consumed"
	BatchStatusWasted   = "wasted"
)

// StockBatch es un lote recibido en una fecha de compra. Nunca se elimina:
// RemainingQuantity baja con salidas y mermas y el lote cambia de estado al llegar a cero.
type StockBatch struct {
	ID                string          `json:"id"`
	ItemID            string          `json:"itemId"`
	BatchNumber       string          `json:"batchNumber"`
	Quantity          decimal.Decimal `json:"quantity"` // cantidad original
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	CostPerUnit       decimal.Decimal `json:"costPerUnit"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	ExpiryDate        *time.Time      `json:"expiryDate,omitempty"`
	Supplier          string          `json:"supplier,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// GetID implementa recordstore.Record.
func (b StockBatch) GetID() string { return b.ID }

// IsActive indica si el lote sigue disponible para consumo.
func (b StockBatch) IsActive() bool { return b.Status == BatchStatusActive }

// HasStock indica si el lote está activo y le queda cantidad.
func (b StockBatch) HasStock() bool {
	return b.IsActive() && b.RemainingQuantity.GreaterThan(decimal.Zero)
}

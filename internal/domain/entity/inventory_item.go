package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo del almacén de cocina (arroz, ghee, especias...).
// CurrentStock es una caché: la suma de RemainingQuantity de sus lotes activos.
// Solo se actualiza dentro de una unidad de trabajo del ledger, nunca a mano.
type InventoryItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"` // kg, l, unidad...
	Location      string          `json:"location"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	MaxStockLevel decimal.Decimal `json:"maxStockLevel"`
	CostPerUnit   decimal.Decimal `json:"costPerUnit"` // costo promedio ponderado
	CurrentStock  decimal.Decimal `json:"currentStock"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// GetID implementa recordstore.Record.
func (i InventoryItem) GetID() string { return i.ID }

// Value devuelve CurrentStock * CostPerUnit.
func (i InventoryItem) Value() decimal.Decimal {
	return i.CurrentStock.Mul(i.CostPerUnit)
}

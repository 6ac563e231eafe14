package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// Niveles de salud del stock.
const (
	StatusGood     = "good"
	StatusLow      = "low"
	StatusCritical = "critical"
)

// lowFactor: por debajo de min*1.5 el artículo se considera bajo.
var lowFactor = decimal.RequireFromString("1.5")

// StockStatus clasifica un stock frente a su mínimo:
// critical si current <= min, low si current <= min*1.5, good en otro caso.
func StockStatus(current, minLevel decimal.Decimal) string {
	if current.LessThanOrEqual(minLevel) {
		return StatusCritical
	}
	if current.LessThanOrEqual(minLevel.Mul(lowFactor)) {
		return StatusLow
	}
	return StatusGood
}

// ItemStatus aplica StockStatus a un artículo.
func ItemStatus(item *entity.InventoryItem) string {
	return StockStatus(item.CurrentStock, item.MinStockLevel)
}

// LowThreshold devuelve min*1.5, el umbral superior del estado low.
func LowThreshold(minLevel decimal.Decimal) decimal.Decimal {
	return minLevel.Mul(lowFactor)
}

// TotalValue suma CurrentStock * CostPerUnit sobre todos los artículos.
func TotalValue(items []*entity.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value())
	}
	return total
}

// ActiveStock suma RemainingQuantity de los lotes activos del artículo.
func ActiveStock(itemID string, batches []*entity.StockBatch) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range batches {
		if b.ItemID == itemID && b.IsActive() {
			sum = sum.Add(b.RemainingQuantity)
		}
	}
	return sum
}

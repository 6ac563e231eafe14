package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// StockDrift diferencia entre la caché CurrentStock de un artículo y la suma de sus lotes activos.
type StockDrift struct {
	ItemID      string
	ItemName    string
	Cached      decimal.Decimal
	FromBatches decimal.Decimal
}

// BatchDrift diferencia entre RemainingQuantity de un lote y la suma de los movimientos que lo referencian.
type BatchDrift struct {
	BatchID       string
	ItemID        string
	Remaining     decimal.Decimal
	FromMovements decimal.Decimal
}

// FindStockDrift compara cada artículo con sus lotes. No repara nada.
func FindStockDrift(items []*entity.InventoryItem, batches []*entity.StockBatch) []StockDrift {
	var out []StockDrift
	for _, it := range items {
		actual := ActiveStock(it.ID, batches)
		if !actual.Equal(it.CurrentStock) {
			out = append(out, StockDrift{
				ItemID:      it.ID,
				ItemName:    it.Name,
				Cached:      it.CurrentStock,
				FromBatches: actual,
			})
		}
	}
	return out
}

// FindMovementDrift compara cada lote con la suma con signo de sus movimientos.
func FindMovementDrift(batches []*entity.StockBatch, movements []*entity.StockMovement) []BatchDrift {
	sums := make(map[string]decimal.Decimal, len(batches))
	for _, m := range movements {
		if m.BatchID == "" {
			continue
		}
		sums[m.BatchID] = sums[m.BatchID].Add(m.Quantity)
	}
	var out []BatchDrift
	for _, b := range batches {
		sum := sums[b.ID]
		if !sum.Equal(b.RemainingQuantity) {
			out = append(out, BatchDrift{
				BatchID:       b.ID,
				ItemID:        b.ItemID,
				Remaining:     b.RemainingQuantity,
				FromMovements: sum,
			})
		}
	}
	return out
}

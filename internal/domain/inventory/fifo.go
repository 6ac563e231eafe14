package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// SortFIFO ordena los lotes por fecha de compra ascendente (el más antiguo primero).
// Empates: CreatedAt y luego ID, para que el orden sea determinista.
func SortFIFO(batches []*entity.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// AvailableBatches filtra los lotes activos del artículo con cantidad restante y los ordena FIFO.
func AvailableBatches(batches []*entity.StockBatch, itemID string) []*entity.StockBatch {
	out := make([]*entity.StockBatch, 0, len(batches))
	for _, b := range batches {
		if b.ItemID == itemID && b.HasStock() {
			out = append(out, b)
		}
	}
	SortFIFO(out)
	return out
}

// SelectBatch elige el lote del que descontar qty:
// el más antiguo cuya cantidad restante alcance; si ninguno alcanza, el más antiguo igualmente.
// El caller debe detectar el cumplimiento parcial. ok=false si no hay lotes activos.
func SelectBatch(batches []*entity.StockBatch, itemID string, qty decimal.Decimal) (*entity.StockBatch, bool) {
	available := AvailableBatches(batches, itemID)
	if len(available) == 0 {
		return nil, false
	}
	for _, b := range available {
		if b.RemainingQuantity.GreaterThanOrEqual(qty) {
			return b, true
		}
	}
	return available[0], true
}

package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
)

// Las semillas deben ser un ledger consistente por sí solas.
func TestDemoSeeds_Consistentes(t *testing.T) {
	s := recordstore.DemoSeeds()

	items := make([]*entity.InventoryItem, 0, len(s.Items))
	for i := range s.Items {
		items = append(items, &s.Items[i])
	}
	batches := make([]*entity.StockBatch, 0, len(s.Batches))
	for i := range s.Batches {
		batches = append(batches, &s.Batches[i])
	}
	movements := make([]*entity.StockMovement, 0, len(s.Movements))
	for i := range s.Movements {
		movements = append(movements, &s.Movements[i])
	}

	assert.Empty(t, inventory.FindStockDrift(items, batches))
	assert.Empty(t, inventory.FindMovementDrift(batches, movements))
}

package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStockStatus_Umbrales(t *testing.T) {
	cases := []struct {
		name    string
		current string
		min     string
		want    string
	}{
		{"igual al mínimo es crítico", "10", "10", inventory.StatusCritical},
		{"bajo el mínimo es crítico", "3", "10", inventory.StatusCritical},
		{"justo en min*1.5 es bajo", "15", "10", inventory.StatusLow},
		{"un centésimo sobre min*1.5 es bueno", "15.01", "10", inventory.StatusGood},
		{"entre min y min*1.5 es bajo", "12.5", "10", inventory.StatusLow},
		{"mínimo cero con stock cero es crítico", "0", "0", inventory.StatusCritical},
		{"mínimo decimal", "3.75", "2.5", inventory.StatusLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.StockStatus(d(tc.current), d(tc.min)))
		})
	}
}

func TestTotalValue_SumaStockPorCosto(t *testing.T) {
	items := []*entity.InventoryItem{
		{ID: "a", CurrentStock: d("10"), CostPerUnit: d("2.5")},
		{ID: "b", CurrentStock: d("4"), CostPerUnit: d("100")},
		{ID: "c", CurrentStock: d("0"), CostPerUnit: d("9")},
	}
	assert.True(t, d("425").Equal(inventory.TotalValue(items)))
	assert.True(t, decimal.Zero.Equal(inventory.TotalValue(nil)))
}

func TestActiveStock_IgnoraLotesNoActivos(t *testing.T) {
	batches := []*entity.StockBatch{
		{ID: "1", ItemID: "rice", RemainingQuantity: d("5"), Status: entity.BatchStatusActive},
		{ID: "2", ItemID: "rice", RemainingQuantity: d("7"), Status: entity.BatchStatusActive},
		{ID: "3", ItemID: "rice", RemainingQuantity: d("9"), Status: entity.BatchStatusExpired},
		{ID: "4", ItemID: "dal", RemainingQuantity: d("1"), Status: entity.BatchStatusActive},
	}
	assert.True(t, d("12").Equal(inventory.ActiveStock("rice", batches)))
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 a 2.00 + 30 a 4.00 = 140 / 40 = 3.5
	got := inventory.CostCalculator(d("10"), d("2"), d("30"), d("4"))
	assert.True(t, d("3.5").Equal(got), "got %s", got)

	// Sin stock previo: el costo es el de la entrada.
	got = inventory.CostCalculator(decimal.Zero, d("99"), d("5"), d("7"))
	assert.True(t, d("7").Equal(got))

	// Stock previo negativo (deriva) no contamina el promedio.
	got = inventory.CostCalculator(d("-3"), d("50"), d("2"), d("10"))
	assert.True(t, d("10").Equal(got))
}

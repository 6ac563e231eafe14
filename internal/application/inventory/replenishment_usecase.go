package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de la despensa.
type ReplenishmentUseCase struct {
	tx ports.TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx ports.TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx}
}

// GenerateReplenishmentList devuelve los artículos en estado low o critical con la cantidad
// sugerida para volver al stock objetivo (máximo, o min*1.5 si no hay máximo).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	suggestions := []dto.ReplenishmentSuggestionDTO{}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		requests, err := repos.Requests.List("")
		if err != nil {
			return err
		}

		// Cantidad ya pedida y aún no recibida, por artículo.
		open := make(map[string]decimal.Decimal)
		for _, r := range requests {
			if r.Status == entity.RequestStatusPending || r.Status == entity.RequestStatusApproved {
				open[r.ItemID] = open[r.ItemID].Add(r.Quantity)
			}
		}

		for _, it := range items {
			status := inventory.ItemStatus(it)
			if status == inventory.StatusGood {
				continue
			}
			target := it.MaxStockLevel
			if target.IsZero() {
				target = inventory.LowThreshold(it.MinStockLevel)
			}
			suggested := target.Sub(it.CurrentStock)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ItemID:             it.ID,
				ItemName:           it.Name,
				Category:           it.Category,
				Unit:               it.Unit,
				Status:             status,
				CurrentStock:       it.CurrentStock,
				MinStockLevel:      it.MinStockLevel,
				TargetStock:        target,
				SuggestedOrderQty:  suggested,
				UnitCost:           it.CostPerUnit,
				EstimatedOrderCost: suggested.Mul(it.CostPerUnit).Round(2),
				OpenRequestQty:     open[it.ID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Primero critical, luego mayor déficit relativo al mínimo, luego nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Status != b.Status {
			return a.Status == inventory.StatusCritical
		}
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.ItemName < b.ItemName
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// coverage current/min: cuanto menor, más urgente. Sin mínimo cuenta como cubierto.
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if !s.MinStockLevel.IsPositive() {
		return decimal.NewFromInt(1_000_000)
	}
	return s.CurrentStock.DivRound(s.MinStockLevel, 4)
}

package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// Reconcile informa, sin reparar, de artículos cuya caché no coincide con sus lotes
// y de lotes cuya cantidad no coincide con la suma de sus movimientos. Con WithStockTotals
// también cruza la caché con lo que suma el propio backend.
func (uc *LedgerUseCase) Reconcile(ctx context.Context) (*dto.ReconcileReport, error) {
	out := &dto.ReconcileReport{Items: []dto.StockDriftDTO{}, Batches: []dto.BatchDriftDTO{}, Store: []dto.StockDriftDTO{}}
	var items []*entity.InventoryItem
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		var err error
		items, err = repos.Items.List()
		if err != nil {
			return err
		}
		batches, err := repos.Batches.List()
		if err != nil {
			return err
		}
		movements, err := repos.Movements.List(repository.MovementFilter{})
		if err != nil {
			return err
		}
		for _, d := range inventory.FindStockDrift(items, batches) {
			out.Items = append(out.Items, dto.StockDriftDTO{
				ItemID: d.ItemID, ItemName: d.ItemName, Cached: d.Cached, FromBatches: d.FromBatches,
			})
		}
		for _, d := range inventory.FindMovementDrift(batches, movements) {
			out.Batches = append(out.Batches, dto.BatchDriftDTO{
				BatchID: d.BatchID, ItemID: d.ItemID, Remaining: d.Remaining, FromMovements: d.FromMovements,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.totals != nil {
		totals, err := uc.totals.StockByItem(ctx)
		if err != nil {
			return nil, fmt.Errorf("sumas del backend: %w", err)
		}
		out.Store = storeDrift(items, totals)
	}
	out.Consistent = len(out.Items) == 0 && len(out.Batches) == 0 && len(out.Store) == 0
	if !out.Consistent {
		uc.log.Warn().
			Int("items", len(out.Items)).
			Int("batches", len(out.Batches)).
			Int("store", len(out.Store)).
			Msg("descuadre detectado en el ledger")
	}
	return out, nil
}

// storeDrift compara la caché de cada artículo con la suma del backend. Sin fila = cero.
func storeDrift(items []*entity.InventoryItem, totals map[string]decimal.Decimal) []dto.StockDriftDTO {
	out := []dto.StockDriftDTO{}
	for _, it := range items {
		sum := totals[it.ID]
		if !sum.Equal(it.CurrentStock) {
			out = append(out, dto.StockDriftDTO{
				ItemID: it.ID, ItemName: it.Name, Cached: it.CurrentStock, FromBatches: sum,
			})
		}
	}
	return out
}

// RepairStock recalcula la caché de todos los artículos desde sus lotes y devuelve los
// que estaban descuadrados. No toca lotes ni movimientos.
func (uc *LedgerUseCase) RepairStock(ctx context.Context, actor string) ([]dto.StockDriftDTO, error) {
	now := uc.now()
	repaired := []dto.StockDriftDTO{}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		batches, err := repos.Batches.List()
		if err != nil {
			return err
		}
		for _, d := range inventory.FindStockDrift(items, batches) {
			item, err := getItem(repos, d.ItemID)
			if err != nil {
				return err
			}
			if err := recompute(repos, item, now); err != nil {
				return err
			}
			repaired = append(repaired, dto.StockDriftDTO{
				ItemID: d.ItemID, ItemName: d.ItemName, Cached: d.Cached, FromBatches: d.FromBatches,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("repaired", len(repaired)).Str("actor", actor).Msg("caché de stock recalculada")
	return repaired, nil
}

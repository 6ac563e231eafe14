package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// ExpiryReport clasifica los lotes activos en "caducan pronto" (hoy..hoy+days) y "caducados".
// Es de solo lectura: no marca nada.
func (uc *LedgerUseCase) ExpiryReport(ctx context.Context, days int) (*dto.ExpiryReportDTO, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days no puede ser negativo", domain.ErrInvalidInput)
	}
	today := uc.now().In(uc.loc)

	var out *dto.ExpiryReportDTO
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		batches, err := repos.Batches.List()
		if err != nil {
			return err
		}
		items, err := itemIndex(repos)
		if err != nil {
			return err
		}
		report := inventory.ClassifyExpiry(batches, today, days)
		out = &dto.ExpiryReportDTO{
			Today:        report.Today.Format(dto.DateLayout),
			WindowDays:   days,
			ExpiringSoon: expiryEntries(report.ExpiringSoon, items, today),
			Expired:      expiryEntries(report.Expired, items, today),
		}
		return nil
	})
	return out, err
}

// SweepExpired marca como caducados los lotes activos cuya fecha ya pasó, da de baja su
// cantidad restante con un movimiento de merma por lote y recalcula los artículos afectados.
func (uc *LedgerUseCase) SweepExpired(ctx context.Context, actor string) (*dto.SweepResult, error) {
	now := uc.now()
	today := now.In(uc.loc)

	res := &dto.SweepResult{Movements: []*entity.StockMovement{}}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		batches, err := repos.Batches.List()
		if err != nil {
			return err
		}
		report := inventory.ClassifyExpiry(batches, today, 0)
		touched := make(map[string]bool)
		var order []string
		for _, b := range report.Expired {
			if b.RemainingQuantity.IsPositive() {
				mov := uc.movement(now, actor, b.ItemID, b.ID, entity.MovementTypeWastage, b.RemainingQuantity.Neg(), b.CostPerUnit, ReasonExpired)
				if err := repos.Movements.Append(mov); err != nil {
					return err
				}
				res.Movements = append(res.Movements, mov)
			}
			b.RemainingQuantity = decimal.Zero
			b.Status = entity.BatchStatusExpired
			b.UpdatedAt = now
			if err := repos.Batches.Update(b); err != nil {
				return err
			}
			if !touched[b.ItemID] {
				touched[b.ItemID] = true
				order = append(order, b.ItemID)
			}
		}
		for _, id := range order {
			item, err := getItem(repos, id)
			if err != nil {
				return err
			}
			if err := recompute(repos, item, now); err != nil {
				return err
			}
		}
		res.ExpiredBatches = len(report.Expired)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, m := range res.Movements {
		uc.publish(ctx, *m)
	}
	if res.ExpiredBatches > 0 {
		uc.log.Info().Int("batches", res.ExpiredBatches).Str("actor", actor).Msg("lotes caducados dados de baja")
	}
	return res, nil
}

func itemIndex(repos repository.Repositories) (map[string]*entity.InventoryItem, error) {
	items, err := repos.Items.List()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]*entity.InventoryItem, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx, nil
}

func expiryEntries(batches []*entity.StockBatch, items map[string]*entity.InventoryItem, today time.Time) []dto.ExpiryEntry {
	out := make([]dto.ExpiryEntry, 0, len(batches))
	for _, b := range batches {
		days, _ := inventory.DaysUntilExpiry(b, today)
		e := dto.ExpiryEntry{
			BatchID:           b.ID,
			BatchNumber:       b.BatchNumber,
			ItemID:            b.ItemID,
			RemainingQuantity: b.RemainingQuantity,
			Value:             b.RemainingQuantity.Mul(b.CostPerUnit),
			ExpiryDate:        b.ExpiryDate.In(today.Location()).Format(dto.DateLayout),
			DaysUntilExpiry:   days,
		}
		if it, ok := items[b.ItemID]; ok {
			e.ItemName = it.Name
			e.Unit = it.Unit
		}
		out = append(out, e)
	}
	return out
}

// Package inventory casos de uso del ledger: entradas, salidas FIFO, mermas, ajustes,
// correcciones, caducidad, reposición y consultas.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// Motivos por defecto de los movimientos.
const (
	ReasonAdd     = "Entrada de stock"
	ReasonIssue   = "Salida a cocina"
	ReasonExpired = "caducado"
)

// LedgerUseCase registra las operaciones que cambian cantidades. Cada operación escribe
// exactamente un movimiento, actualiza el lote y recalcula la caché del artículo dentro
// de la misma unidad de trabajo; cualquier error descarta la unidad completa.
type LedgerUseCase struct {
	tx      ports.TxRunner
	events  ports.EventPublisher
	metrics ports.Metrics
	totals  ports.StockTotals
	log     zerolog.Logger
	loc     *time.Location
	now     func() time.Time
	newID   func() string
}

// NewLedgerUseCase construye el caso de uso. events y metrics pueden ser nil.
func NewLedgerUseCase(tx ports.TxRunner, events ports.EventPublisher, metrics ports.Metrics, loc *time.Location, log zerolog.Logger) *LedgerUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerUseCase{
		tx:      tx,
		events:  events,
		metrics: metrics,
		log:     log,
		loc:     loc,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// WithClock sustituye el reloj (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// WithStockTotals añade a Reconcile el cruce con las sumas calculadas por el backend.
// Solo tiene sentido si no hay lotes semilla, que nunca se persisten.
func (uc *LedgerUseCase) WithStockTotals(totals ports.StockTotals) *LedgerUseCase {
	uc.totals = totals
	return uc
}

// AddStock recibe un lote nuevo, recalcula el costo promedio ponderado del artículo y,
// si se indica RequestID, marca como cumplida la solicitud aprobada.
func (uc *LedgerUseCase) AddStock(ctx context.Context, actor string, in dto.AddStockRequest) (*dto.LedgerResult, error) {
	purchase, expiry, err := in.Validate(uc.loc)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if purchase == nil {
		p := inventory.DateOnly(now, uc.loc)
		purchase = &p
	}
	if expiry != nil && expiry.Before(*purchase) {
		return nil, fmt.Errorf("%w: expiryDate anterior a purchaseDate", domain.ErrInvalidInput)
	}

	var res dto.LedgerResult
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, in.ItemID)
		if err != nil {
			return err
		}

		var req *entity.StockRequest
		if in.RequestID != "" {
			req, err = repos.Requests.GetByID(in.RequestID)
			if err != nil {
				return err
			}
			if req == nil {
				return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, in.RequestID)
			}
			if req.ItemID != item.ID {
				return fmt.Errorf("%w: la solicitud es de otro artículo", domain.ErrInvalidInput)
			}
			if req.Status != entity.RequestStatusApproved {
				return fmt.Errorf("%w: la solicitud está %s", domain.ErrConflict, req.Status)
			}
		}

		batchID := uc.newID()
		number := strings.TrimSpace(in.BatchNumber)
		if number == "" {
			number = defaultBatchNumber(*purchase, batchID)
		}
		batch := &entity.StockBatch{
			ID:                batchID,
			ItemID:            item.ID,
			BatchNumber:       number,
			Quantity:          in.Quantity,
			RemainingQuantity: in.Quantity,
			CostPerUnit:       in.CostPerUnit,
			PurchaseDate:      *purchase,
			ExpiryDate:        expiry,
			Supplier:          strings.TrimSpace(in.Supplier),
			Status:            entity.BatchStatusActive,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := repos.Batches.Create(batch); err != nil {
			return err
		}

		// Costo promedio ponderado sobre el stock existente antes de la entrada.
		item.CostPerUnit = inventory.CostCalculator(item.CurrentStock, item.CostPerUnit, in.Quantity, in.CostPerUnit)

		mov := uc.movement(now, actor, item.ID, batch.ID, entity.MovementTypeAdd, in.Quantity, in.CostPerUnit, defaultReason(in.Reason, ReasonAdd))
		mov.ReferenceID = in.RequestID
		if err := repos.Movements.Append(mov); err != nil {
			return err
		}

		if req != nil {
			req.Status = entity.RequestStatusFulfilled
			req.FulfilledBy = mov.ID
			req.UpdatedAt = now
			if err := repos.Requests.Update(req); err != nil {
				return err
			}
			res.Request = req
		}

		if err := recompute(repos, item, now); err != nil {
			return err
		}
		res.Movement, res.Batch, res.Item = *mov, batch, *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Request != nil {
		uc.metrics.RequestTransition(entity.RequestStatusFulfilled)
	}
	return uc.committed(ctx, &res), nil
}

// IssueStock descuenta cantidad de un único lote: el indicado o el elegido por FIFO.
// Si ese lote no alcanza la operación se rechaza sin escribir nada.
func (uc *LedgerUseCase) IssueStock(ctx context.Context, actor string, in dto.IssueStockRequest) (*dto.LedgerResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var res dto.LedgerResult
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, in.ItemID)
		if err != nil {
			return err
		}
		batch, err := pickBatch(repos, item.ID, in.BatchID, in.Quantity)
		if err != nil {
			return err
		}
		if batch.RemainingQuantity.LessThan(in.Quantity) {
			return fmt.Errorf("%w: el lote %s tiene %s %s", domain.ErrInsufficientStock, batch.BatchNumber, batch.RemainingQuantity, item.Unit)
		}

		batch.RemainingQuantity = batch.RemainingQuantity.Sub(in.Quantity)
		if batch.RemainingQuantity.IsZero() {
			batch.Status = entity.BatchStatusConsumed
		}
		batch.UpdatedAt = now
		if err := repos.Batches.Update(batch); err != nil {
			return err
		}

		mov := uc.movement(now, actor, item.ID, batch.ID, entity.MovementTypeIssue, in.Quantity.Neg(), batch.CostPerUnit, defaultReason(in.Reason, ReasonIssue))
		if err := repos.Movements.Append(mov); err != nil {
			return err
		}
		if err := recompute(repos, item, now); err != nil {
			return err
		}
		res.Movement, res.Batch, res.Item = *mov, batch, *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, &res), nil
}

// RecordWastage da de baja cantidad perdida de un lote. Nunca puede superar lo que queda.
func (uc *LedgerUseCase) RecordWastage(ctx context.Context, actor string, in dto.WastageRequest) (*dto.LedgerResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var res dto.LedgerResult
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, in.ItemID)
		if err != nil {
			return err
		}
		batch, err := pickBatch(repos, item.ID, in.BatchID, in.Quantity)
		if err != nil {
			return err
		}
		if in.Quantity.GreaterThan(batch.RemainingQuantity) {
			return fmt.Errorf("%w: la merma supera lo que queda en el lote %s (%s)", domain.ErrInsufficientStock, batch.BatchNumber, batch.RemainingQuantity)
		}

		batch.RemainingQuantity = batch.RemainingQuantity.Sub(in.Quantity)
		if batch.RemainingQuantity.IsZero() {
			batch.Status = entity.BatchStatusWasted
		}
		batch.UpdatedAt = now
		if err := repos.Batches.Update(batch); err != nil {
			return err
		}

		mov := uc.movement(now, actor, item.ID, batch.ID, entity.MovementTypeWastage, in.Quantity.Neg(), batch.CostPerUnit, strings.TrimSpace(in.Reason))
		if err := repos.Movements.Append(mov); err != nil {
			return err
		}
		if err := recompute(repos, item, now); err != nil {
			return err
		}
		res.Movement, res.Batch, res.Item = *mov, batch, *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, &res), nil
}

// AdjustStock aplica una corrección de conteo con signo sobre un lote concreto.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, actor string, in dto.AdjustStockRequest) (*dto.LedgerResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var res dto.LedgerResult
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, in.ItemID)
		if err != nil {
			return err
		}
		batch, err := getBatch(repos, item.ID, in.BatchID)
		if err != nil {
			return err
		}
		if err := applyDelta(batch, in.Delta, now); err != nil {
			return err
		}
		if err := repos.Batches.Update(batch); err != nil {
			return err
		}

		mov := uc.movement(now, actor, item.ID, batch.ID, entity.MovementTypeAdjustment, in.Delta, batch.CostPerUnit, strings.TrimSpace(in.Reason))
		if err := repos.Movements.Append(mov); err != nil {
			return err
		}
		if err := recompute(repos, item, now); err != nil {
			return err
		}
		res.Movement, res.Batch, res.Item = *mov, batch, *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, &res), nil
}

// Rework corrige un movimiento anterior aplicando un delta sobre su mismo lote.
// El movimiento original no se toca: la corrección queda como movimiento propio que lo referencia.
func (uc *LedgerUseCase) Rework(ctx context.Context, actor string, in dto.ReworkRequest) (*dto.LedgerResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var res dto.LedgerResult
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		orig, err := repos.Movements.GetByID(in.OriginalMovementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, in.OriginalMovementID)
		}
		if orig.BatchID == "" {
			return fmt.Errorf("%w: el movimiento original no tiene lote", domain.ErrConflict)
		}
		item, err := getItem(repos, orig.ItemID)
		if err != nil {
			return err
		}
		batch, err := getBatch(repos, item.ID, orig.BatchID)
		if err != nil {
			return err
		}
		if err := applyDelta(batch, in.Delta, now); err != nil {
			return err
		}
		if err := repos.Batches.Update(batch); err != nil {
			return err
		}

		mov := uc.movement(now, actor, item.ID, batch.ID, entity.MovementTypeRework, in.Delta, batch.CostPerUnit, strings.TrimSpace(in.Reason))
		mov.ReferenceID = orig.ID
		if err := repos.Movements.Append(mov); err != nil {
			return err
		}
		if err := recompute(repos, item, now); err != nil {
			return err
		}
		res.Movement, res.Batch, res.Item = *mov, batch, *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, &res), nil
}

func (uc *LedgerUseCase) movement(now time.Time, actor, itemID, batchID, typ string, qty, unitCost decimal.Decimal, reason string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:        uc.newID(),
		ItemID:    itemID,
		BatchID:   batchID,
		Type:      typ,
		Quantity:  qty,
		UnitCost:  unitCost,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: now,
	}
}

// committed completa el resultado y publica el movimiento una vez persistido.
// Un fallo al publicar se registra pero no deshace la operación.
func (uc *LedgerUseCase) committed(ctx context.Context, res *dto.LedgerResult) *dto.LedgerResult {
	res.Status = inventory.ItemStatus(&res.Item)
	uc.publish(ctx, res.Movement)
	uc.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("type", res.Movement.Type).
		Str("item_id", res.Item.ID).
		Str("quantity", res.Movement.Quantity.String()).
		Str("actor", res.Movement.Actor).
		Str("status", res.Status).
		Msg("movimiento registrado")
	return res
}

func (uc *LedgerUseCase) publish(ctx context.Context, m entity.StockMovement) {
	uc.metrics.MovementRecorded(m.Type)
	if err := uc.events.PublishMovement(ctx, m); err != nil {
		uc.metrics.PublishFailed()
		uc.log.Error().Err(err).Str("movement_id", m.ID).Msg("no se pudo publicar el movimiento")
	}
}

func getItem(repos repository.Repositories, id string) (*entity.InventoryItem, error) {
	item, err := repos.Items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func getBatch(repos repository.Repositories, itemID, batchID string) (*entity.StockBatch, error) {
	batch, err := repos.Batches.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil || batch.ItemID != itemID {
		return nil, fmt.Errorf("%w: lote %s del artículo %s", domain.ErrNotFound, batchID, itemID)
	}
	return batch, nil
}

// pickBatch devuelve el lote indicado (debe estar activo) o el que elige FIFO.
func pickBatch(repos repository.Repositories, itemID, batchID string, qty decimal.Decimal) (*entity.StockBatch, error) {
	if batchID != "" {
		batch, err := getBatch(repos, itemID, batchID)
		if err != nil {
			return nil, err
		}
		if !batch.IsActive() {
			return nil, fmt.Errorf("%w: el lote %s está %s", domain.ErrConflict, batch.BatchNumber, batch.Status)
		}
		return batch, nil
	}
	batches, err := repos.Batches.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	batch, ok := inventory.SelectBatch(batches, itemID, qty)
	if !ok {
		return nil, domain.ErrNoActiveBatch
	}
	return batch, nil
}

// applyDelta ajusta la cantidad restante de un lote. El resultado no puede ser negativo.
// Un lote consumido vuelve a estar activo si recupera cantidad; caducados y mermados no se reabren.
func applyDelta(batch *entity.StockBatch, delta decimal.Decimal, now time.Time) error {
	switch batch.Status {
	case entity.BatchStatusActive, entity.BatchStatusConsumed:
	default:
		return fmt.Errorf("%w: el lote %s está %s", domain.ErrConflict, batch.BatchNumber, batch.Status)
	}
	next := batch.RemainingQuantity.Add(delta)
	if next.IsNegative() {
		return fmt.Errorf("%w: el lote %s quedaría en %s", domain.ErrInsufficientStock, batch.BatchNumber, next)
	}
	batch.RemainingQuantity = next
	if next.IsZero() {
		batch.Status = entity.BatchStatusConsumed
	} else {
		batch.Status = entity.BatchStatusActive
	}
	batch.UpdatedAt = now
	return nil
}

// recompute fija CurrentStock = Σ restante de los lotes activos y persiste el artículo.
func recompute(repos repository.Repositories, item *entity.InventoryItem, now time.Time) error {
	batches, err := repos.Batches.ListByItem(item.ID)
	if err != nil {
		return err
	}
	item.CurrentStock = inventory.ActiveStock(item.ID, batches)
	item.UpdatedAt = now
	return repos.Items.Update(item)
}

func defaultReason(reason, def string) string {
	if r := strings.TrimSpace(reason); r != "" {
		return r
	}
	return def
}

func defaultBatchNumber(purchase time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return "L" + purchase.Format("20060102") + "-" + suffix
}

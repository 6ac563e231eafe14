package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	"github.com/jhoicas/templo-inventario/internal/application/ports"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// ItemUseCase catálogo de artículos y consultas de lotes y movimientos.
// Stock y costo nunca se fijan aquí: salen del ledger.
type ItemUseCase struct {
	tx  ports.TxRunner
	loc *time.Location
	now func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(tx ports.TxRunner, loc *time.Location) *ItemUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ItemUseCase{tx: tx, loc: loc, now: time.Now}
}

// Create da de alta un artículo con stock cero. El nombre es único (sin distinguir mayúsculas).
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.InventoryItem{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Category:      strings.TrimSpace(in.Category),
		Unit:          strings.TrimSpace(in.Unit),
		Location:      strings.TrimSpace(in.Location),
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		CostPerUnit:   decimal.Zero,
		CurrentStock:  decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Items.GetByName(item.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe un artículo %q", domain.ErrDuplicate, item.Name)
		}
		return repos.Items.Create(item)
	})
	if err != nil {
		return nil, err
	}
	v := toItemView(item)
	return &v, nil
}

// Update cambia los datos de catálogo de un artículo.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemView, error) {
	var out dto.ItemView
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, id)
		if err != nil {
			return err
		}
		if err := in.Apply(item); err != nil {
			return err
		}
		if in.Name != nil {
			other, err := repos.Items.GetByName(item.Name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != item.ID {
				return fmt.Errorf("%w: ya existe un artículo %q", domain.ErrDuplicate, item.Name)
			}
		}
		item.UpdatedAt = uc.now()
		if err := repos.Items.Update(item); err != nil {
			return err
		}
		out = toItemView(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get devuelve el artículo con sus lotes en orden FIFO y sus últimos movimientos.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemDetail, error) {
	var out *dto.ItemDetail
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		item, err := getItem(repos, id)
		if err != nil {
			return err
		}
		batches, err := repos.Batches.ListByItem(id)
		if err != nil {
			return err
		}
		inventory.SortFIFO(batches)
		movements, err := repos.Movements.List(repository.MovementFilter{ItemID: id, Limit: 20})
		if err != nil {
			return err
		}
		out = &dto.ItemDetail{ItemView: toItemView(item), Batches: batches, Movements: movements}
		if out.Batches == nil {
			out.Batches = []*entity.StockBatch{}
		}
		if out.Movements == nil {
			out.Movements = []*entity.StockMovement{}
		}
		return nil
	})
	return out, err
}

// List devuelve los artículos filtrados, en el orden del almacén (semillas primero).
func (uc *ItemUseCase) List(ctx context.Context, f dto.ItemFilter) ([]dto.ItemView, error) {
	switch f.Status {
	case "", inventory.StatusGood, inventory.StatusLow, inventory.StatusCritical:
	default:
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, f.Status)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := []dto.ItemView{}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		items, err := repos.Items.List()
		if err != nil {
			return err
		}
		for _, it := range items {
			if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
				continue
			}
			v := toItemView(it)
			if f.Status != "" && v.Status != f.Status {
				continue
			}
			out = append(out, v)
		}
		return nil
	})
	return out, err
}

// ListBatches lotes de un artículo (o de todos si itemID está vacío), en orden FIFO.
func (uc *ItemUseCase) ListBatches(ctx context.Context, itemID string, activeOnly bool) ([]*entity.StockBatch, error) {
	out := []*entity.StockBatch{}
	err := uc.tx.View(ctx, func(repos repository.Repositories) error {
		var batches []*entity.StockBatch
		var err error
		if itemID != "" {
			batches, err = repos.Batches.ListByItem(itemID)
		} else {
			batches, err = repos.Batches.List()
		}
		if err != nil {
			return err
		}
		for _, b := range batches {
			if activeOnly && !b.IsActive() {
				continue
			}
			out = append(out, b)
		}
		inventory.SortFIFO(out)
		return nil
	})
	return out, err
}

// ListMovements historial de movimientos, del más reciente al más antiguo.
func (uc *ItemUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) ([]*entity.StockMovement, error) {
	if q.Type != "" && !entity.IsValidMovementType(q.Type) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, q.Type)
	}
	from, err := dto.ParseDate(q.From, uc.loc)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(q.To, uc.loc)
	if err != nil {
		return nil, err
	}
	if to != nil {
		// "to" es inclusivo: hasta el final de ese día.
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	q.DefaultPage()

	out := []*entity.StockMovement{}
	err = uc.tx.View(ctx, func(repos repository.Repositories) error {
		list, err := repos.Movements.List(repository.MovementFilter{
			ItemID:  q.ItemID,
			BatchID: q.BatchID,
			Type:    q.Type,
			From:    from,
			To:      to,
			Limit:   q.Limit,
			Offset:  q.Offset,
		})
		if err != nil {
			return err
		}
		out = append(out, list...)
		return nil
	})
	return out, err
}

func toItemView(it *entity.InventoryItem) dto.ItemView {
	return dto.ItemView{
		InventoryItem: *it,
		Status:        inventory.ItemStatus(it),
		Value:         it.Value().Round(2),
		LowThreshold:  inventory.LowThreshold(it.MinStockLevel),
	}
}

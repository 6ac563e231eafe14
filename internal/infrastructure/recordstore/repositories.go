package recordstore

import (
	"sort"
	"strings"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

var (
	_ repository.InventoryItemRepository = (*itemRepo)(nil)
	_ repository.StockBatchRepository    = (*batchRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.StockRequestRepository  = (*requestRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
)

type itemRepo struct{ t *table[entity.InventoryItem] }

func (r *itemRepo) Create(item *entity.InventoryItem) error          { return r.t.insert(*item) }
func (r *itemRepo) GetByID(id string) (*entity.InventoryItem, error) { return r.t.get(id), nil }
func (r *itemRepo) Update(item *entity.InventoryItem) error          { return r.t.update(*item) }
func (r *itemRepo) List() ([]*entity.InventoryItem, error)           { return r.t.all(), nil }

func (r *itemRepo) GetByName(name string) (*entity.InventoryItem, error) {
	for i := range r.t.rows {
		if strings.EqualFold(strings.TrimSpace(r.t.rows[i].Name), strings.TrimSpace(name)) {
			c := r.t.rows[i]
			return &c, nil
		}
	}
	return nil, nil
}

type batchRepo struct{ t *table[entity.StockBatch] }

func (r *batchRepo) Create(b *entity.StockBatch) error             { return r.t.insert(*b) }
func (r *batchRepo) GetByID(id string) (*entity.StockBatch, error) { return r.t.get(id), nil }
func (r *batchRepo) Update(b *entity.StockBatch) error             { return r.t.update(*b) }
func (r *batchRepo) List() ([]*entity.StockBatch, error)           { return r.t.all(), nil }

func (r *batchRepo) ListByItem(itemID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for i := range r.t.rows {
		if r.t.rows[i].ItemID == itemID {
			c := r.t.rows[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// movementRepo no expone Update ni Delete: la colección es de solo inserción.
type movementRepo struct{ t *table[entity.StockMovement] }

func (r *movementRepo) Append(m *entity.StockMovement) error { return r.t.insert(*m) }
func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	return r.t.get(id), nil
}

// List filtra y devuelve los movimientos del más reciente al más antiguo.
func (r *movementRepo) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range r.t.rows {
		m := r.t.rows[i]
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.BatchID != "" && m.BatchID != f.BatchID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*entity.StockMovement{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type requestRepo struct{ t *table[entity.StockRequest] }

func (r *requestRepo) Create(req *entity.StockRequest) error { return r.t.insert(*req) }
func (r *requestRepo) GetByID(id string) (*entity.StockRequest, error) {
	return r.t.get(id), nil
}
func (r *requestRepo) Update(req *entity.StockRequest) error { return r.t.update(*req) }

func (r *requestRepo) List(status string) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for i := range r.t.rows {
		if status != "" && r.t.rows[i].Status != status {
			continue
		}
		c := r.t.rows[i]
		out = append(out, &c)
	}
	return out, nil
}

type userRepo struct{ t *table[entity.User] }

func (r *userRepo) Create(u *entity.User) error             { return r.t.insert(*u) }
func (r *userRepo) GetByID(id string) (*entity.User, error) { return r.t.get(id), nil }
func (r *userRepo) List() ([]*entity.User, error)           { return r.t.all(), nil }

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	for i := range r.t.rows {
		if strings.EqualFold(r.t.rows[i].Email, email) {
			c := r.t.rows[i]
			return &c, nil
		}
	}
	return nil, nil
}

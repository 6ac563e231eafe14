package recordstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// Collections agrupa las cinco colecciones con sus semillas.
type Collections struct {
	Items     *Collection[entity.InventoryItem]
	Batches   *Collection[entity.StockBatch]
	Movements *Collection[entity.StockMovement]
	Requests  *Collection[entity.StockRequest]
	Users     *Collection[entity.User]
}

// NewCollections construye las colecciones con nombre fijo y las semillas indicadas.
func NewCollections(seeds Seeds, log zerolog.Logger) *Collections {
	return &Collections{
		Items:     NewCollection(CollectionItems, seeds.Items, log),
		Batches:   NewCollection(CollectionBatches, seeds.Batches, log),
		Movements: NewCollection(CollectionMovements, seeds.Movements, log),
		Requests:  NewCollection(CollectionRequests, seeds.Requests, log),
		Users:     NewCollection(CollectionUsers, seeds.Users, log),
	}
}

// TxRunner ejecuta unidades de trabajo sobre las colecciones: carga todo, llama a fn con
// repositorios en memoria y, si fn no falla, reescribe las colecciones modificadas.
// Un único escritor a la vez (mutex); con un backend TxBlobStore la escritura además es atómica.
type TxRunner struct {
	mu    sync.RWMutex
	store BlobStore
	cols  *Collections
	log   zerolog.Logger
}

// NewTxRunner construye el runner.
func NewTxRunner(store BlobStore, cols *Collections, log zerolog.Logger) *TxRunner {
	return &TxRunner{store: store, cols: cols, log: log}
}

type unitOfWork struct {
	items     table[entity.InventoryItem]
	batches   table[entity.StockBatch]
	movements table[entity.StockMovement]
	requests  table[entity.StockRequest]
	users     table[entity.User]
}

func (u *unitOfWork) repos() repository.Repositories {
	return repository.Repositories{
		Items:     &itemRepo{t: &u.items},
		Batches:   &batchRepo{t: &u.batches},
		Movements: &movementRepo{t: &u.movements},
		Requests:  &requestRepo{t: &u.requests},
		Users:     &userRepo{t: &u.users},
	}
}

// Run ejecuta fn como lectura-modificación-escritura. Si fn devuelve error no se escribe nada.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txs, ok := r.store.(TxBlobStore); ok {
		return txs.WithTx(ctx, CollectionNames, func(tx BlobStore) error {
			return r.run(ctx, tx, fn)
		})
	}
	return r.run(ctx, r.store, fn)
}

func (r *TxRunner) run(ctx context.Context, store BlobStore, fn func(repository.Repositories) error) error {
	uow, err := r.load(ctx, store)
	if err != nil {
		return err
	}
	if err := fn(uow.repos()); err != nil {
		return err
	}
	return r.flush(ctx, store, uow)
}

// View ejecuta fn en solo lectura. Si el backend no responde se registra y se sirven
// únicamente las semillas, como si no hubiera datos.
func (r *TxRunner) View(ctx context.Context, fn func(repos repository.Repositories) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uow, err := r.load(ctx, r.store)
	if err != nil {
		r.log.Warn().Err(err).Msg("almacén no disponible, se sirven solo las semillas")
		uow = r.seedsOnly()
	}
	return fn(uow.repos())
}

func (r *TxRunner) load(ctx context.Context, store BlobStore) (*unitOfWork, error) {
	uow := &unitOfWork{}
	var err error
	if uow.items.rows, uow.items.revision, err = r.cols.Items.Load(ctx, store); err != nil {
		return nil, err
	}
	if uow.batches.rows, uow.batches.revision, err = r.cols.Batches.Load(ctx, store); err != nil {
		return nil, err
	}
	if uow.movements.rows, uow.movements.revision, err = r.cols.Movements.Load(ctx, store); err != nil {
		return nil, err
	}
	if uow.requests.rows, uow.requests.revision, err = r.cols.Requests.Load(ctx, store); err != nil {
		return nil, err
	}
	if uow.users.rows, uow.users.revision, err = r.cols.Users.Load(ctx, store); err != nil {
		return nil, err
	}
	return uow, nil
}

func (r *TxRunner) seedsOnly() *unitOfWork {
	return &unitOfWork{
		items:     table[entity.InventoryItem]{rows: r.cols.Items.Seeds()},
		batches:   table[entity.StockBatch]{rows: r.cols.Batches.Seeds()},
		movements: table[entity.StockMovement]{rows: r.cols.Movements.Seeds()},
		requests:  table[entity.StockRequest]{rows: r.cols.Requests.Seeds()},
		users:     table[entity.User]{rows: r.cols.Users.Seeds()},
	}
}

// flush reescribe solo las colecciones tocadas por la unidad de trabajo.
func (r *TxRunner) flush(ctx context.Context, store BlobStore, uow *unitOfWork) error {
	if err := flushTable(ctx, store, r.cols.Items, &uow.items); err != nil {
		return err
	}
	if err := flushTable(ctx, store, r.cols.Batches, &uow.batches); err != nil {
		return err
	}
	if err := flushTable(ctx, store, r.cols.Movements, &uow.movements); err != nil {
		return err
	}
	if err := flushTable(ctx, store, r.cols.Requests, &uow.requests); err != nil {
		return err
	}
	return flushTable(ctx, store, r.cols.Users, &uow.users)
}

func flushTable[T Record](ctx context.Context, store BlobStore, col *Collection[T], t *table[T]) error {
	if !t.dirty {
		return nil
	}
	rev, err := col.Replace(ctx, store, t.rows, t.revision)
	if err != nil {
		return fmt.Errorf("unidad de trabajo: %w", err)
	}
	t.revision = rev
	t.dirty = false
	return nil
}

package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/templo-inventario/internal/application/dto"
	appinv "github.com/jhoicas/templo-inventario/internal/application/inventory"
	"github.com/jhoicas/templo-inventario/internal/domain"
	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: ghee con dos lotes, arroz con un lote ya caducado.
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(m time.Month, day int) time.Time {
	return time.Date(2026, m, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(m time.Month, day int) *time.Time {
	t := date(m, day)
	return &t
}

func fixture() recordstore.Seeds {
	item := func(id, name, minL, maxL, cost, stock string) entity.InventoryItem {
		return entity.InventoryItem{
			ID: id, Name: name, Category: "Despensa", Unit: "kg",
			MinStockLevel: d(minL), MaxStockLevel: d(maxL), CostPerUnit: d(cost), CurrentStock: d(stock),
			CreatedAt: date(time.September, 1), UpdatedAt: date(time.September, 1),
		}
	}
	batch := func(id, itemID, qty, cost string, purchased time.Time, expiry *time.Time) entity.StockBatch {
		return entity.StockBatch{
			ID: id, ItemID: itemID, BatchNumber: "N-" + id, Quantity: d(qty), RemainingQuantity: d(qty),
			CostPerUnit: d(cost), PurchaseDate: purchased, ExpiryDate: expiry, Status: entity.BatchStatusActive,
			CreatedAt: purchased, UpdatedAt: purchased,
		}
	}
	add := func(id, itemID, batchID, qty, cost string, at time.Time) entity.StockMovement {
		return entity.StockMovement{
			ID: id, ItemID: itemID, BatchID: batchID, Type: entity.MovementTypeAdd,
			Quantity: d(qty), UnitCost: d(cost), Reason: "compra", Actor: "seed", CreatedAt: at,
		}
	}
	return recordstore.Seeds{
		Items: []entity.InventoryItem{
			item("ghee", "Ghee", "10", "60", "10", "30"),
			item("rice", "Arroz", "20", "0", "2", "25"),
		},
		Batches: []entity.StockBatch{
			batch("g1", "ghee", "10", "10", date(time.October, 1), datePtr(time.October, 22)),
			batch("g2", "ghee", "20", "10", date(time.October, 5), datePtr(time.December, 31)),
			batch("r1", "rice", "25", "2", date(time.September, 1), datePtr(time.October, 18)),
		},
		Movements: []entity.StockMovement{
			add("m-g1", "ghee", "g1", "10", "10", date(time.October, 1)),
			add("m-g2", "ghee", "g2", "20", "10", date(time.October, 5)),
			add("m-r1", "rice", "r1", "25", "2", date(time.September, 1)),
		},
		Requests: []entity.StockRequest{
			{ID: "req-pending", ItemID: "ghee", Quantity: d("30"), Reason: "festival", RequestedBy: "u-cocina", Status: entity.RequestStatusPending, CreatedAt: date(time.October, 10)},
			{ID: "req-approved", ItemID: "ghee", Quantity: d("30"), Reason: "festival", RequestedBy: "u-cocina", Status: entity.RequestStatusApproved, CreatedAt: date(time.October, 11)},
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.StockMovement
	err    error
}

func (p *recordingPublisher) PublishMovement(_ context.Context, m entity.StockMovement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, m)
	return p.err
}

type countingMetrics struct {
	mu        sync.Mutex
	movements map[string]int
	requests  map[string]int
	failures  int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{movements: map[string]int{}, requests: map[string]int{}}
}

func (m *countingMetrics) MovementRecorded(t string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[t]++
}

func (m *countingMetrics) RequestTransition(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[s]++
}

func (m *countingMetrics) PublishFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

type env struct {
	runner  *recordstore.TxRunner
	ledger  *appinv.LedgerUseCase
	pub     *recordingPublisher
	metrics *countingMetrics
}

func newEnv(t *testing.T, seeds recordstore.Seeds) *env {
	t.Helper()
	runner := recordstore.NewTxRunner(recordstore.NewMemoryStore(), recordstore.NewCollections(seeds, zerolog.Nop()), zerolog.Nop())
	pub := &recordingPublisher{}
	m := newCountingMetrics()
	ledger := appinv.NewLedgerUseCase(runner, pub, m, time.UTC, zerolog.Nop()).WithClock(func() time.Time { return now })
	return &env{runner: runner, ledger: ledger, pub: pub, metrics: m}
}

func (e *env) movements(t *testing.T) []*entity.StockMovement {
	t.Helper()
	var out []*entity.StockMovement
	require.NoError(t, e.runner.View(context.Background(), func(r repository.Repositories) error {
		var err error
		out, err = r.Movements.List(repository.MovementFilter{})
		return err
	}))
	return out
}

func (e *env) batch(t *testing.T, id string) *entity.StockBatch {
	t.Helper()
	var out *entity.StockBatch
	require.NoError(t, e.runner.View(context.Background(), func(r repository.Repositories) error {
		var err error
		out, err = r.Batches.GetByID(id)
		return err
	}))
	require.NotNil(t, out)
	return out
}

func (e *env) item(t *testing.T, id string) *entity.InventoryItem {
	t.Helper()
	var out *entity.InventoryItem
	require.NoError(t, e.runner.View(context.Background(), func(r repository.Repositories) error {
		var err error
		out, err = r.Items.GetByID(id)
		return err
	}))
	require.NotNil(t, out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AddStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAddStock_CreaLoteMovimientoYCostoPonderado(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.AddStock(context.Background(), "u-almacen", dto.AddStockRequest{
		ItemID: "ghee", Quantity: d("30"), CostPerUnit: d("16"),
		PurchaseDate: "2026-10-19", ExpiryDate: "2027-01-31", Supplier: "Lechería",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeAdd, res.Movement.Type)
	assert.True(t, res.Movement.Quantity.Equal(d("30")))
	assert.Equal(t, "u-almacen", res.Movement.Actor)
	assert.Equal(t, appinv.ReasonAdd, res.Movement.Reason)
	require.NotNil(t, res.Batch)
	assert.Equal(t, res.Batch.ID, res.Movement.BatchID)
	assert.Equal(t, "L20261019-", res.Batch.BatchNumber[:10])
	assert.Equal(t, date(time.October, 19), res.Batch.PurchaseDate)

	// (30*10 + 30*16) / 60 = 13
	assert.True(t, res.Item.CostPerUnit.Equal(d("13")), "costo: %s", res.Item.CostPerUnit)
	assert.True(t, res.Item.CurrentStock.Equal(d("60")))
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("60")))

	assert.Len(t, e.movements(t), 4)
	assert.Len(t, e.pub.events, 1)
	assert.Equal(t, 1, e.metrics.movements[entity.MovementTypeAdd])
}

func TestAddStock_CumpleSolicitudAprobada(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.AddStock(context.Background(), "u-almacen", dto.AddStockRequest{
		ItemID: "ghee", Quantity: d("30"), CostPerUnit: d("10"), RequestID: "req-approved",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Request)
	assert.Equal(t, entity.RequestStatusFulfilled, res.Request.Status)
	assert.Equal(t, res.Movement.ID, res.Request.FulfilledBy)
	assert.Equal(t, "req-approved", res.Movement.ReferenceID)
	assert.Equal(t, 1, e.metrics.requests[entity.RequestStatusFulfilled])
}

func TestAddStock_SolicitudNoAprobada_NoEscribeNada(t *testing.T) {
	e := newEnv(t, fixture())
	_, err := e.ledger.AddStock(context.Background(), "u-almacen", dto.AddStockRequest{
		ItemID: "ghee", Quantity: d("30"), CostPerUnit: d("10"), RequestID: "req-pending",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, e.movements(t), 3)
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("30")))
}

func TestAddStock_Validaciones(t *testing.T) {
	e := newEnv(t, fixture())
	ctx := context.Background()

	cases := map[string]dto.AddStockRequest{
		"cantidad cero":     {ItemID: "ghee", Quantity: d("0")},
		"costo negativo":    {ItemID: "ghee", Quantity: d("1"), CostPerUnit: d("-1")},
		"fecha mal formada": {ItemID: "ghee", Quantity: d("1"), PurchaseDate: "19/10/2026"},
		"caduca antes":      {ItemID: "ghee", Quantity: d("1"), PurchaseDate: "2026-10-19", ExpiryDate: "2026-10-01"},
	}
	for name, in := range cases {
		_, err := e.ledger.AddStock(ctx, "u", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	_, err := e.ledger.AddStock(ctx, "u", dto.AddStockRequest{ItemID: "no-existe", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, e.movements(t), 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// IssueStock
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueStock_FIFOEligeElMasAntiguoSuficiente(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.IssueStock(context.Background(), "u-cocina", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("15")})
	require.NoError(t, err)

	// g1 (10) no alcanza; g2 (20) sí.
	assert.Equal(t, "g2", res.Batch.ID)
	assert.True(t, res.Batch.RemainingQuantity.Equal(d("5")))
	assert.True(t, res.Movement.Quantity.Equal(d("-15")))
	assert.Equal(t, appinv.ReasonIssue, res.Movement.Reason)
	assert.True(t, res.Item.CurrentStock.Equal(d("15")))
	assert.Equal(t, "low", res.Status, "15 == min*1.5")
}

func TestIssueStock_LoteInsuficiente_RechazaSinEscribir(t *testing.T) {
	e := newEnv(t, fixture())
	// Ningún lote alcanza: FIFO devuelve g1 (10) y la salida se rechaza.
	_, err := e.ledger.IssueStock(context.Background(), "u-cocina", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("25")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, e.movements(t), 3)
	assert.True(t, e.batch(t, "g1").RemainingQuantity.Equal(d("10")))
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("30")))
	assert.Empty(t, e.pub.events)
}

func TestIssueStock_AgotaLote_QuedaConsumido(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.IssueStock(context.Background(), "u-cocina", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("10")})
	require.NoError(t, err)
	assert.Equal(t, "g1", res.Batch.ID)
	assert.Equal(t, entity.BatchStatusConsumed, res.Batch.Status)
	assert.True(t, res.Item.CurrentStock.Equal(d("20")))

	// El lote consumido ya no se ofrece.
	res, err = e.ledger.IssueStock(context.Background(), "u-cocina", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("1")})
	require.NoError(t, err)
	assert.Equal(t, "g2", res.Batch.ID)
}

func TestIssueStock_LoteExplicito(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.IssueStock(context.Background(), "u", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("2"), BatchID: "g2"})
	require.NoError(t, err)
	assert.Equal(t, "g2", res.Batch.ID)

	_, err = e.ledger.IssueStock(context.Background(), "u", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("2"), BatchID: "r1"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "lote de otro artículo")
}

func TestIssueStock_SinLotesActivos(t *testing.T) {
	seeds := fixture()
	seeds.Items = append(seeds.Items, entity.InventoryItem{ID: "salt", Name: "Sal", Unit: "kg"})
	e := newEnv(t, seeds)
	_, err := e.ledger.IssueStock(context.Background(), "u", dto.IssueStockRequest{ItemID: "salt", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNoActiveBatch)
}

func TestIssueStock_FalloAlPublicarNoDeshaceLaOperacion(t *testing.T) {
	e := newEnv(t, fixture())
	e.pub.err = errors.New("broker caído")

	_, err := e.ledger.IssueStock(context.Background(), "u", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("1")})
	require.NoError(t, err)
	assert.Len(t, e.movements(t), 4)
	assert.Equal(t, 1, e.metrics.failures)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mermas, ajustes y correcciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordWastage(t *testing.T) {
	e := newEnv(t, fixture())
	ctx := context.Background()

	_, err := e.ledger.RecordWastage(ctx, "u", dto.WastageRequest{ItemID: "ghee", BatchID: "g1", Quantity: d("1"), Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "motivo obligatorio")

	// Q > R: rechazo sin tocar lote, artículo ni movimientos.
	_, err = e.ledger.RecordWastage(ctx, "u", dto.WastageRequest{ItemID: "ghee", BatchID: "g2", Quantity: d("21"), Reason: "derrame"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, e.movements(t), 3)
	assert.True(t, e.batch(t, "g2").RemainingQuantity.Equal(d("20")))
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("30")))

	// Q < R: queda R - Q y exactamente un movimiento de merma nuevo.
	res, err := e.ledger.RecordWastage(ctx, "u", dto.WastageRequest{ItemID: "ghee", BatchID: "g2", Quantity: d("4"), Reason: "derrame"})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, res.Batch.Status)
	assert.True(t, e.batch(t, "g2").RemainingQuantity.Equal(d("16")))
	movs := e.movements(t)
	assert.Len(t, movs, 4)
	wastage := 0
	for _, m := range movs {
		if m.Type == entity.MovementTypeWastage {
			wastage++
			assert.True(t, m.Quantity.Equal(d("-4")))
			assert.Equal(t, "g2", m.BatchID)
		}
	}
	assert.Equal(t, 1, wastage)
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("26")))

	// Q == R: el lote queda mermado y sale del stock.
	res, err = e.ledger.RecordWastage(ctx, "u", dto.WastageRequest{ItemID: "ghee", BatchID: "g1", Quantity: d("10"), Reason: "derrame"})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusWasted, res.Batch.Status)
	assert.True(t, res.Movement.Quantity.Equal(d("-10")))
	assert.Equal(t, "derrame", res.Movement.Reason)
	assert.True(t, res.Item.CurrentStock.Equal(d("16")))
}

func TestAdjustStock(t *testing.T) {
	e := newEnv(t, fixture())
	ctx := context.Background()

	_, err := e.ledger.AdjustStock(ctx, "u", dto.AdjustStockRequest{ItemID: "ghee", BatchID: "g1", Delta: d("-11"), Reason: "conteo"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := e.ledger.AdjustStock(ctx, "u", dto.AdjustStockRequest{ItemID: "ghee", BatchID: "g1", Delta: d("2.5"), Reason: "conteo"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustment, res.Movement.Type)
	assert.True(t, res.Batch.RemainingQuantity.Equal(d("12.5")))
	assert.True(t, res.Item.CurrentStock.Equal(d("32.5")))
}

func TestRework_ReferenciaAlMovimientoOriginal(t *testing.T) {
	e := newEnv(t, fixture())
	ctx := context.Background()

	issued, err := e.ledger.IssueStock(ctx, "u", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("5"), BatchID: "g2"})
	require.NoError(t, err)

	// Se sacaron 5 pero eran 3: devolver 2 al mismo lote.
	res, err := e.ledger.Rework(ctx, "u", dto.ReworkRequest{OriginalMovementID: issued.Movement.ID, Delta: d("2"), Reason: "error de pesaje"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeRework, res.Movement.Type)
	assert.Equal(t, issued.Movement.ID, res.Movement.ReferenceID)
	assert.Equal(t, "g2", res.Movement.BatchID)
	assert.True(t, res.Batch.RemainingQuantity.Equal(d("17")))
	assert.True(t, res.Item.CurrentStock.Equal(d("27")))

	_, err = e.ledger.Rework(ctx, "u", dto.ReworkRequest{OriginalMovementID: "no-existe", Delta: d("1"), Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Caducidad y conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestExpiryReport(t *testing.T) {
	e := newEnv(t, fixture())

	_, err := e.ledger.ExpiryReport(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rep, err := e.ledger.ExpiryReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", rep.Today)
	require.Len(t, rep.ExpiringSoon, 1)
	assert.Equal(t, "g1", rep.ExpiringSoon[0].BatchID)
	assert.Equal(t, 3, rep.ExpiringSoon[0].DaysUntilExpiry)
	assert.Equal(t, "Ghee", rep.ExpiringSoon[0].ItemName)
	require.Len(t, rep.Expired, 1)
	assert.Equal(t, "r1", rep.Expired[0].BatchID)
	assert.Equal(t, -1, rep.Expired[0].DaysUntilExpiry)

	// Solo lectura: nada cambió.
	assert.Equal(t, entity.BatchStatusActive, e.batch(t, "r1").Status)
}

func TestSweepExpired_DaDeBajaYRecalcula(t *testing.T) {
	e := newEnv(t, fixture())
	res, err := e.ledger.SweepExpired(context.Background(), "u-admin")
	require.NoError(t, err)

	assert.Equal(t, 1, res.ExpiredBatches)
	require.Len(t, res.Movements, 1)
	mov := res.Movements[0]
	assert.Equal(t, entity.MovementTypeWastage, mov.Type)
	assert.Equal(t, appinv.ReasonExpired, mov.Reason)
	assert.True(t, mov.Quantity.Equal(d("-25")))

	r1 := e.batch(t, "r1")
	assert.Equal(t, entity.BatchStatusExpired, r1.Status)
	assert.True(t, r1.RemainingQuantity.IsZero())
	assert.True(t, e.item(t, "rice").CurrentStock.IsZero())

	rep, err := e.ledger.Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.Consistent)

	// Una segunda pasada no encuentra nada.
	res, err = e.ledger.SweepExpired(context.Background(), "u-admin")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExpiredBatches)
}

func TestReconcileYRepairStock(t *testing.T) {
	seeds := fixture()
	seeds.Items[0].CurrentStock = d("31")
	e := newEnv(t, seeds)
	ctx := context.Background()

	rep, err := e.ledger.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, rep.Consistent)
	require.Len(t, rep.Items, 1)
	assert.Equal(t, "ghee", rep.Items[0].ItemID)
	assert.True(t, rep.Items[0].FromBatches.Equal(d("30")))
	assert.Empty(t, rep.Batches)

	repaired, err := e.ledger.RepairStock(ctx, "u-admin")
	require.NoError(t, err)
	assert.Len(t, repaired, 1)

	rep, err = e.ledger.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
}

type fixedTotals struct {
	totals map[string]decimal.Decimal
	err    error
}

func (f fixedTotals) StockByItem(context.Context) (map[string]decimal.Decimal, error) {
	return f.totals, f.err
}

func TestReconcile_CruzaConSumasDelBackend(t *testing.T) {
	e := newEnv(t, fixture())
	ctx := context.Background()

	e.ledger.WithStockTotals(fixedTotals{totals: map[string]decimal.Decimal{"ghee": d("30.00"), "rice": d("20")}})
	rep, err := e.ledger.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, rep.Consistent)
	assert.Empty(t, rep.Items)
	require.Len(t, rep.Store, 1)
	assert.Equal(t, "rice", rep.Store[0].ItemID)
	assert.True(t, rep.Store[0].Cached.Equal(d("25")))
	assert.True(t, rep.Store[0].FromBatches.Equal(d("20")))

	e.ledger.WithStockTotals(fixedTotals{totals: map[string]decimal.Decimal{"ghee": d("30"), "rice": d("25")}})
	rep, err = e.ledger.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Consistent)
	assert.Empty(t, rep.Store)

	boom := errors.New("conexión perdida")
	e.ledger.WithStockTotals(fixedTotals{err: boom})
	_, err = e.ledger.Reconcile(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestLedger_OperacionesConcurrentesNoPierdenEscrituras(t *testing.T) {
	e := newEnv(t, fixture())
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.ledger.IssueStock(context.Background(), "u", dto.IssueStockRequest{ItemID: "ghee", Quantity: d("1"), BatchID: "g2"})
		}()
	}
	wg.Wait()
	assert.True(t, e.batch(t, "g2").RemainingQuantity.Equal(d("10")))
	assert.True(t, e.item(t, "ghee").CurrentStock.Equal(d("20")))
	assert.Len(t, e.movements(t), 13)
}

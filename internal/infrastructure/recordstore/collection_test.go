package recordstore_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
)

var ts = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func user(id, name string) entity.User {
	return entity.User{ID: id, Email: id + "@templo.local", Name: name, Role: entity.RoleCocina, Status: "active", CreatedAt: ts, UpdatedAt: ts}
}

func userIDs(us []entity.User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.ID)
	}
	return out
}

// failingStore simula un backend caído.
type failingStore struct{}

var errBackend = errors.New("backend caído")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errBackend }
func (failingStore) Put(context.Context, string, []byte) error   { return errBackend }

func TestCollection_SinBlob_DevuelveSemillas(t *testing.T) {
	col := recordstore.NewCollection("users", []entity.User{user("a", "A"), user("b", "B")}, zerolog.Nop())

	got, rev, err := col.Load(context.Background(), recordstore.NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rev)
	assert.Equal(t, []string{"a", "b"}, userIDs(got))
}

func TestCollection_ReplaceYLoad_SuperponeSemillas(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemoryStore()
	col := recordstore.NewCollection("users", []entity.User{user("a", "A"), user("b", "B")}, zerolog.Nop())

	edited := user("b", "B editado")
	records := []entity.User{user("a", "A"), edited, user("c", "C")}
	rev, err := col.Replace(ctx, store, records, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	got, rev, err := col.Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.Equal(t, records, got)

	// La semilla sin cambios no se persiste.
	raw, err := store.Get(ctx, "users")
	require.NoError(t, err)
	var env struct {
		Schema   int           `json:"schema"`
		Revision int64         `json:"revision"`
		Records  []entity.User `json:"records"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, recordstore.SchemaVersion, env.Schema)
	assert.Equal(t, []string{"b", "c"}, userIDs(env.Records))
}

// JSON normaliza los decimales ("5.50" se lee como "5.5"): el valor es el mismo pero la
// representación interna no, así que se comparan con Equal y no con igualdad profunda.
func TestCollection_ReplaceYLoad_LotesYArticulosConDecimales(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemoryStore()
	dec := decimal.RequireFromString
	expiry := ts.AddDate(0, 3, 0)

	seedBatch := entity.StockBatch{
		ID: "b-seed", ItemID: "ghee", BatchNumber: "GH-1", Quantity: dec("5.50"), RemainingQuantity: dec("5.50"),
		CostPerUnit: dec("2.10"), PurchaseDate: ts, Status: entity.BatchStatusActive, CreatedAt: ts, UpdatedAt: ts,
	}
	saved := entity.StockBatch{
		ID: "b-new", ItemID: "ghee", BatchNumber: "GH-2", Quantity: dec("12.500"), RemainingQuantity: dec("7.250"),
		CostPerUnit: dec("3.40"), PurchaseDate: ts, ExpiryDate: &expiry, Supplier: "Proveedor",
		Status: entity.BatchStatusActive, CreatedAt: ts, UpdatedAt: ts,
	}
	batches := recordstore.NewCollection(recordstore.CollectionBatches, []entity.StockBatch{seedBatch}, zerolog.Nop())
	_, err := batches.Replace(ctx, store, []entity.StockBatch{seedBatch, saved}, 0)
	require.NoError(t, err)

	got, _, err := batches.Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-seed", got[0].ID)
	b := got[1]
	assert.Equal(t, saved.ID, b.ID)
	assert.Equal(t, saved.BatchNumber, b.BatchNumber)
	assert.Equal(t, saved.Status, b.Status)
	assert.True(t, saved.PurchaseDate.Equal(b.PurchaseDate))
	require.NotNil(t, b.ExpiryDate)
	assert.True(t, saved.ExpiryDate.Equal(*b.ExpiryDate))
	assert.True(t, saved.Quantity.Equal(b.Quantity))
	assert.True(t, saved.RemainingQuantity.Equal(b.RemainingQuantity))
	assert.True(t, saved.CostPerUnit.Equal(b.CostPerUnit))
	assert.Equal(t, "7.25", b.RemainingQuantity.String())

	// La semilla con "5.50" serializa igual que la leída: no se persiste.
	raw, err := store.Get(ctx, recordstore.CollectionBatches)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "b-seed")

	item := entity.InventoryItem{
		ID: "ghee", Name: "Ghee", Category: "Lácteos", Unit: "kg",
		MinStockLevel: dec("10.0"), MaxStockLevel: dec("60.00"), CostPerUnit: dec("11.50"), CurrentStock: dec("7.250"),
		CreatedAt: ts, UpdatedAt: ts,
	}
	items := recordstore.NewCollection[entity.InventoryItem](recordstore.CollectionItems, nil, zerolog.Nop())
	_, err = items.Replace(ctx, store, []entity.InventoryItem{item}, 0)
	require.NoError(t, err)
	gotItems, _, err := items.Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, gotItems, 1)
	it := gotItems[0]
	assert.Equal(t, item.Name, it.Name)
	assert.True(t, item.MinStockLevel.Equal(it.MinStockLevel))
	assert.True(t, item.MaxStockLevel.Equal(it.MaxStockLevel))
	assert.True(t, item.CostPerUnit.Equal(it.CostPerUnit))
	assert.True(t, item.CurrentStock.Equal(it.CurrentStock))
}

func TestCollection_RevisionCreceEnCadaEscritura(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemoryStore()
	col := recordstore.NewCollection[entity.User]("users", nil, zerolog.Nop())

	var rev int64
	for i := 0; i < 3; i++ {
		_, prev, err := col.Load(ctx, store)
		require.NoError(t, err)
		rev, err = col.Replace(ctx, store, []entity.User{user("x", "X")}, prev)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), rev)
}

func TestCollection_BlobCorrupto_SoloSemillas(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "users", []byte("{esto no es json")))
	col := recordstore.NewCollection("users", []entity.User{user("a", "A")}, zerolog.Nop())

	got, rev, err := col.Load(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rev)
	assert.Equal(t, []string{"a"}, userIDs(got))
}

func TestCollection_EsquemaFuturo_SoloSemillas(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "users", []byte(`{"schema":99,"revision":4,"records":[{"id":"z"}]}`)))
	col := recordstore.NewCollection[entity.User]("users", nil, zerolog.Nop())

	got, _, err := col.Load(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCollection_ErrorDeBackend_SePropaga(t *testing.T) {
	col := recordstore.NewCollection[entity.User]("users", nil, zerolog.Nop())
	_, _, err := col.Load(context.Background(), failingStore{})
	assert.ErrorIs(t, err, errBackend)
}

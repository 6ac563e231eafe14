package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/templo-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
	"github.com/jhoicas/templo-inventario/pkg/config"
)

// Requiere una base real: TEST_DATABASE_URL=postgres://... go test ./...
func newStore(t *testing.T) *postgres.BlobStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	require.NoError(t, postgres.Migrate(dsn))
	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(context.Background(), `TRUNCATE record_collections`)
	require.NoError(t, err)
	return postgres.NewBlobStore(pool)
}

func TestBlobStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	got, err := s.Get(ctx, "stock_batches")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Put(ctx, "stock_batches", []byte(`{"schema":1,"revision":3,"records":[]}`)))
	got, err = s.Get(ctx, "stock_batches")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema":1,"revision":3,"records":[]}`, string(got))

	revs, err := s.Revisions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), revs["stock_batches"])
}

func TestBlobStore_WithTx_RollbackEnError(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, recordstore.CollectionNames, func(tx recordstore.BlobStore) error {
		require.NoError(t, tx.Put(ctx, "stock_items", []byte(`{"schema":1,"revision":1,"records":[]}`)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "stock_items")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBlobStore_StockByItem(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	totals, err := s.StockByItem(ctx)
	require.NoError(t, err)
	assert.Empty(t, totals)

	require.NoError(t, s.Put(ctx, recordstore.CollectionBatches, []byte(`{"schema":1,"revision":1,"records":[
		{"id":"b1","itemId":"ghee","remainingQuantity":"2.25","status":"active"},
		{"id":"b2","itemId":"ghee","remainingQuantity":"5.50","status":"active"},
		{"id":"b3","itemId":"ghee","remainingQuantity":"9","status":"wasted"},
		{"id":"b4","itemId":"rice","remainingQuantity":"40","status":"active"}
	]}`)))

	totals, err = s.StockByItem(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals["ghee"].Equal(decimal.RequireFromString("7.75")), "solo lotes activos: %s", totals["ghee"])
	assert.True(t, totals["rice"].Equal(decimal.RequireFromString("40")))
}

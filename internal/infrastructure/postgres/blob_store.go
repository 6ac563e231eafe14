package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
)

var _ recordstore.TxBlobStore = (*BlobStore)(nil)

// Querier es lo común entre el pool y una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BlobStore guarda cada colección como una fila de record_collections (payload JSONB).
type BlobStore struct {
	pool *pgxpool.Pool
}

// NewBlobStore construye el backend con el pool.
func NewBlobStore(pool *pgxpool.Pool) *BlobStore {
	return &BlobStore{pool: pool}
}

func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getBlob(ctx, s.pool, key)
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	return putBlob(ctx, s.pool, key, data)
}

// WithTx ejecuta fn en una transacción con las filas de keys bloqueadas (FOR UPDATE).
// Las filas que aún no existen se crean vacías para poder bloquearlas.
func (s *BlobStore) WithTx(ctx context.Context, keys []string, fn func(tx recordstore.BlobStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO record_collections (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`,
		keys,
	); err != nil {
		return fmt.Errorf("preparar colecciones: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`SELECT name FROM record_collections WHERE name = ANY($1) ORDER BY name FOR UPDATE`,
		keys,
	); err != nil {
		return fmt.Errorf("bloquear colecciones: %w", err)
	}

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Revisions devuelve la revisión persistida de cada colección.
func (s *BlobStore) Revisions(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, revision FROM record_collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listar revisiones: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var name string
		var rev int64
		if err := rows.Scan(&name, &rev); err != nil {
			return nil, err
		}
		out[name] = rev
	}
	return out, rows.Err()
}

// StockByItem suma en la base la cantidad restante de los lotes activos persistidos, por artículo.
// El NUMERIC de la suma se lee con el codec decimal registrado en el pool.
func (s *BlobStore) StockByItem(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r->>'itemId', SUM((r->>'remainingQuantity')::numeric)
		FROM record_collections, jsonb_array_elements(payload->'records') r
		WHERE name = $1 AND r->>'status' = 'active'
		GROUP BY 1`,
		recordstore.CollectionBatches,
	)
	if err != nil {
		return nil, fmt.Errorf("sumar stock por artículo: %w", err)
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var total decimal.Decimal
		if err := rows.Scan(&itemID, &total); err != nil {
			return nil, err
		}
		out[itemID] = total
	}
	return out, rows.Err()
}

// txStore vista BlobStore de una transacción abierta.
type txStore struct {
	q Querier
}

func (s *txStore) Get(ctx context.Context, key string) ([]byte, error) {
	return getBlob(ctx, s.q, key)
}

func (s *txStore) Put(ctx context.Context, key string, data []byte) error {
	return putBlob(ctx, s.q, key, data)
}

func getBlob(ctx context.Context, q Querier, key string) ([]byte, error) {
	var payload []byte
	err := q.QueryRow(ctx, `SELECT payload::text FROM record_collections WHERE name = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer colección %s: %w", key, err)
	}
	return payload, nil
}

// putBlob copia la revisión del sobre a su columna para poder consultarla sin decodificar el payload.
func putBlob(ctx context.Context, q Querier, key string, data []byte) error {
	_, err := q.Exec(ctx, `
		INSERT INTO record_collections (name, payload, revision, updated_at)
		VALUES ($1, $2::jsonb, COALESCE(($2::jsonb->>'revision')::bigint, 0), now())
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload, revision = EXCLUDED.revision, updated_at = EXCLUDED.updated_at`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("escribir colección %s: %w", key, err)
	}
	return nil
}

// Package recordstore persiste las colecciones del ledger como blobs JSON completos,
// uno por nombre de colección. No hay actualizaciones parciales ni índices: cada escritura
// reemplaza la colección entera. Sobre lo persistido se superpone un conjunto fijo de
// registros semilla que nunca se escriben.
package recordstore

import (
	"context"
	"errors"
)

// Nombres fijos de las colecciones.
const (
	CollectionItems     = "inventory_items"
	CollectionBatches   = "stock_batches"
	CollectionMovements = "stock_movements"
	CollectionRequests  = "stock_requests"
	CollectionUsers     = "users"
)

// CollectionNames en el orden en que se cargan y se escriben.
var CollectionNames = []string{
	CollectionItems,
	CollectionBatches,
	CollectionMovements,
	CollectionRequests,
	CollectionUsers,
}

// SchemaVersion versión del sobre persistido.
const SchemaVersion = 1

// ErrUnsupportedSchema el blob fue escrito por una versión de esquema más nueva.
var ErrUnsupportedSchema = errors.New("recordstore: versión de esquema no soportada")

// BlobStore almacén clave/valor de blobs. Get devuelve (nil, nil) si la clave no existe.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// TxBlobStore backend capaz de ejecutar una unidad de trabajo de forma atómica
// (Postgres). keys son las claves que fn va a leer y escribir.
type TxBlobStore interface {
	BlobStore
	WithTx(ctx context.Context, keys []string, fn func(tx BlobStore) error) error
}

// Record cualquier registro persistible en una colección.
type Record interface {
	GetID() string
}

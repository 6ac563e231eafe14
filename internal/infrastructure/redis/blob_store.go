// Package redis backend del record store sobre Redis: una clave por colección bajo un prefijo.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/templo-inventario/internal/infrastructure/recordstore"
	"github.com/jhoicas/templo-inventario/pkg/config"
)

var _ recordstore.BlobStore = (*BlobStore)(nil)

// BlobStore guarda cada colección como un string JSON en <prefix><colección>.
type BlobStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewBlobStore construye el backend sobre un cliente existente.
func NewBlobStore(client goredis.UniversalClient, prefix string) *BlobStore {
	return &BlobStore{client: client, prefix: prefix}
}

func (s *BlobStore) key(name string) string { return s.prefix + name }

// Get devuelve (nil, nil) si la clave no existe.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Put reemplaza el blob completo, sin expiración.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

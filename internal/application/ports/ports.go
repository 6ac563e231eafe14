// Package ports puertos de salida compartidos por los casos de uso.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
	"github.com/jhoicas/templo-inventario/internal/domain/repository"
)

// TxRunner ejecuta unidades de trabajo sobre el almacén, pasando repositorios atados a ella.
// Run es lectura-modificación-escritura: si fn devuelve error no se persiste nada.
// View es solo lectura.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
	View(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// EventPublisher publica movimientos ya confirmados (Kafka u otro bus).
type EventPublisher interface {
	PublishMovement(ctx context.Context, m entity.StockMovement) error
}

// Metrics contadores de negocio. La implementación Prometheus acepta receptor nil.
type Metrics interface {
	MovementRecorded(movementType string)
	RequestTransition(status string)
	PublishFailed()
}

// StockTotals suma el stock activo por artículo directamente en el backend (Postgres),
// sin pasar por la carga de colecciones.
type StockTotals interface {
	StockByItem(ctx context.Context) (map[string]decimal.Decimal, error)
}

// NopPublisher descarta los eventos (sin broker configurado).
type NopPublisher struct{}

func (NopPublisher) PublishMovement(context.Context, entity.StockMovement) error { return nil }

// NopMetrics no registra nada.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string)  {}
func (NopMetrics) RequestTransition(string) {}
func (NopMetrics) PublishFailed()           {}

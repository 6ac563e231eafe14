package repository

import (
	"time"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// MovementFilter criterios de listado de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ItemID  string
	BatchID string
	Type    string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// StockMovementRepository define el puerto de persistencia para movimientos (DIP).
// Solo inserción: los movimientos no se editan ni se eliminan.
type StockMovementRepository interface {
	Append(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
}

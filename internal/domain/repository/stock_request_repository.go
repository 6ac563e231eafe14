package repository

import "github.com/jhoicas/templo-inventario/internal/domain/entity"

// StockRequestRepository define el puerto de persistencia para solicitudes de stock (DIP).
type StockRequestRepository interface {
	Create(req *entity.StockRequest) error
	GetByID(id string) (*entity.StockRequest, error)
	Update(req *entity.StockRequest) error
	// List devuelve las solicitudes; status vacío = todas.
	List(status string) ([]*entity.StockRequest, error)
}

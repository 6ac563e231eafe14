package repository

import "github.com/jhoicas/templo-inventario/internal/domain/entity"

// StockBatchRepository define el puerto de persistencia para lotes. No hay Delete: los lotes no se borran.
type StockBatchRepository interface {
	Create(batch *entity.StockBatch) error
	GetByID(id string) (*entity.StockBatch, error)
	Update(batch *entity.StockBatch) error
	ListByItem(itemID string) ([]*entity.StockBatch, error)
	List() ([]*entity.StockBatch, error)
}

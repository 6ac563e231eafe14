package repository

import "github.com/jhoicas/templo-inventario/internal/domain/entity"

// InventoryItemRepository define el puerto de persistencia para artículos (DIP).
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	GetByName(name string) (*entity.InventoryItem, error)
	Update(item *entity.InventoryItem) error
	List() ([]*entity.InventoryItem, error)
}

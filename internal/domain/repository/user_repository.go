package repository

import "github.com/jhoicas/templo-inventario/internal/domain/entity"

// UserRepository define el puerto de persistencia para operadores (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	List() ([]*entity.User, error)
}

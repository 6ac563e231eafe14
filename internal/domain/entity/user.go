package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleCocina  = "cocina"
	RoleAlmacen = "almacen"
)

// User representa un operador de la consola.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"` // bcrypt hash, nunca plano en dominio después de persistir
	Name         string    `json:"name"`
	Role         string    `json:"role"`   // admin, cocina, almacen
	Status       string    `json:"status"` // active, inactive
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GetID implementa recordstore.Record.
func (u User) GetID() string { return u.ID }

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCocina || role == RoleAlmacen
}

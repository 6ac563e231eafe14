package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/jhoicas/templo-inventario/internal/domain/entity"
)

// RegisterRequest entrada para alta de operador (solo admin).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin cocina almacen"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return invalid("email inválido")
	}
	if len(r.Password) < 8 {
		return invalid("password debe tener al menos 8 caracteres")
	}
	if !entity.IsValidRole(r.Role) {
		return invalid("role debe ser admin, cocina o almacen")
	}
	return nil
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

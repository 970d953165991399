package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un administrador o editor del catálogo.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, editor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

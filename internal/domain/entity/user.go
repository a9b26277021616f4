package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"   // importa la red y registra usuarios
	RolePlanner = "planner" // ejecuta pasadas
	RoleViewer  = "viewer"  // solo lectura
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePlanner, RoleViewer:
		return true
	}
	return false
}

// User operador del motor de planeación; pertenece a una red.
type User struct {
	ID           string
	NetworkID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, planner, viewer
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

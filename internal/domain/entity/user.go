package entity

import "time"

// User representa un usuario institucional. Nunca se elimina físicamente:
// se desactiva con IsActive = false para preservar la integridad del historial.
type User struct {
	ID           string
	WorkerID     string // identidad externa de RR.HH.
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	IsActive     bool
	FullName     string
	Department   string // código del catálogo
	Position     string // código del catálogo
	Gender       string // código del catálogo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

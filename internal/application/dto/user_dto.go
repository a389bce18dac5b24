package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el use case).
// El rol llega por nombre (role) o por el ID numérico heredado (legacy_role_id, 1-4).
type CreateUserRequest struct {
	WorkerID     string `json:"worker_id" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,maxbytes=72"`
	Role         string `json:"role" validate:"omitempty,oneof=admin manager technician user"`
	LegacyRoleID *int   `json:"legacy_role_id" validate:"omitnil,min=1,max=4"`
	FullName     string `json:"full_name" validate:"required,min=1,max=200"`
	Department   string `json:"department" validate:"required"`
	Position     string `json:"position" validate:"omitempty"`
	Gender       string `json:"gender" validate:"omitempty"`
}

// UpdateUserRequest cambios administrativos (campos nil no se tocan).
type UpdateUserRequest struct {
	Role         *string `json:"role" validate:"omitnil,oneof=admin manager technician user"`
	LegacyRoleID *int    `json:"legacy_role_id" validate:"omitnil,min=1,max=4"`
	IsActive     *bool   `json:"is_active"`
	FullName     *string `json:"full_name" validate:"omitnil,min=1,max=200"`
	Department   *string `json:"department" validate:"omitnil,min=1"`
	Position     *string `json:"position"`
	Gender       *string `json:"gender"`
}

// UpdateSelfRequest campos que el propio usuario puede cambiar.
type UpdateSelfRequest struct {
	FullName        *string `json:"full_name" validate:"omitnil,min=1,max=200"`
	CurrentPassword string  `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string  `json:"new_password" validate:"omitempty,min=8,maxbytes=72"`
}

// UserListQuery filtros del listado de usuarios.
type UserListQuery struct {
	Role       string `query:"role" validate:"omitempty,oneof=admin manager technician user"`
	Active     *bool  `query:"active"`
	Department string `query:"department"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	WorkerID     string    `json:"worker_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	LegacyRoleID int       `json:"legacy_role_id"`
	IsActive     bool      `json:"is_active"`
	FullName     string    `json:"full_name"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	Gender       string    `json:"gender"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

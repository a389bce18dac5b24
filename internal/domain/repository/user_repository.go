package repository

import (
	"context"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// UserFilter criterios de listado de usuarios. Campos vacíos no filtran.
type UserFilter struct {
	Role       entity.Role
	Active     *bool
	Department string
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID y GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List devuelve la página pedida y el total de coincidencias.
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, int, error)
}

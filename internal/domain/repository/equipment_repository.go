package repository

import (
	"context"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// EquipmentFilter criterios de listado de equipos.
type EquipmentFilter struct {
	Status     entity.EquipmentStatus
	Department string
	Type       string
}

// EquipmentRepository define el puerto de persistencia para Equipment (DIP).
type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	GetByID(ctx context.Context, id string) (*entity.Equipment, error)
	// Lock lee el equipo bloqueándolo hasta el fin de la transacción en curso.
	// Solo tiene sentido sobre un repositorio atado a una transacción.
	Lock(ctx context.Context, id string) (*entity.Equipment, error)
	// Update persiste solo los campos descriptivos; el estado cambia únicamente vía UpdateStatus.
	Update(ctx context.Context, equipment *entity.Equipment) error
	// UpdateStatus es una actualización condicional: si el estado almacenado no es
	// expected devuelve domain.ErrConflict sin modificar nada.
	UpdateStatus(ctx context.Context, id string, expected, next entity.EquipmentStatus, actorID string, at time.Time) error
	List(ctx context.Context, filter EquipmentFilter, limit, offset int) ([]*entity.Equipment, int, error)
}

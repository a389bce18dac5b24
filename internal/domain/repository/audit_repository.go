package repository

import (
	"context"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// LoginFilter criterios para el historial de autenticación.
type LoginFilter struct {
	ActorID string
	Event   string
	From    *time.Time
	To      *time.Time
}

// AuditRepository puerto del historial append-only. No existe operación de borrado ni de edición.
type AuditRepository interface {
	// Append asigna ID (si falta) y Seq, y ajusta OccurredAt para que nunca sea anterior
	// a la última entrada de la misma entidad. Solo falla por indisponibilidad del almacenamiento.
	Append(ctx context.Context, entry *entity.AuditEntry) error
	// History devuelve las entradas de la entidad, más antigua primero (OccurredAt, Seq).
	// actorID no vacío restringe a las entradas de ese actor.
	History(ctx context.Context, kind entity.EntityKind, entityID, actorID string) ([]*entity.AuditEntry, error)
	// ListLogins pagina las entradas de tipo login, más reciente primero.
	ListLogins(ctx context.Context, filter LoginFilter, limit, offset int) ([]*entity.AuditEntry, int, error)
}

package auth

import (
	"context"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// TokenRevoker lista de sesiones cerradas antes de expirar. Una entrada solo necesita
// vivir hasta la expiración natural del token.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// EventRecorder destino de los eventos de autenticación (el historial).
type EventRecorder interface {
	Record(ctx context.Context, entry *entity.AuditEntry) (string, error)
}

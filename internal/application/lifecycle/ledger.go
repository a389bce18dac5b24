package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// acceptedEntry entrada de una transición confirmada.
func acceptedEntry(kind entity.EntityKind, id, actorID, from, to, note string, at time.Time) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:          uuid.New().String(),
		EntityKind:  kind,
		EntityID:    id,
		ActorID:     actorID,
		PriorStatus: from,
		NewStatus:   to,
		Accepted:    true,
		Note:        note,
		OccurredAt:  at,
	}
}

// deniedNote registra un intento de transición denegado por permisos.
// La entrada se escribe bajo el bloqueo de la entidad y con su estado vigente en
// ambos lados, así la última entrada del historial sigue coincidiendo con el estado
// almacenado. Un fallo al escribirla no cambia el resultado: se registra y se sigue.
func deniedNote(
	ctx context.Context,
	tx TxRunner,
	log *logger.Logger,
	kind entity.EntityKind,
	id string,
	actor *entity.User,
	requested string,
	cause error,
	at time.Time,
) {
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	err := tx.Run(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		requestRepo repository.ServiceRequestRepository,
		auditRepo repository.AuditRepository,
	) error {
		current, err := lockedStatus(ctx, kind, id, equipmentRepo, requestRepo)
		if err != nil {
			return err
		}
		return auditRepo.Append(ctx, &entity.AuditEntry{
			ID:          uuid.New().String(),
			EntityKind:  kind,
			EntityID:    id,
			ActorID:     actorID,
			PriorStatus: current,
			NewStatus:   current,
			Accepted:    false,
			Note:        fmt.Sprintf("denegado → %s: %v", requested, cause),
			OccurredAt:  at,
		})
	})
	if err != nil {
		log.Warn().Err(err).
			Str("entity_kind", string(kind)).
			Str("entity_id", id).
			Str("actor_id", actorID).
			Msg("no se pudo registrar el intento denegado")
	}
}

func lockedStatus(
	ctx context.Context,
	kind entity.EntityKind,
	id string,
	equipmentRepo repository.EquipmentRepository,
	requestRepo repository.ServiceRequestRepository,
) (string, error) {
	switch kind {
	case entity.KindEquipment:
		e, err := equipmentRepo.Lock(ctx, id)
		if err != nil {
			return "", err
		}
		if e == nil {
			return "", domain.ErrNotFound
		}
		return string(e.Status), nil
	case entity.KindRequest:
		r, err := requestRepo.Lock(ctx, id)
		if err != nil {
			return "", err
		}
		if r == nil {
			return "", domain.ErrNotFound
		}
		return string(r.Status), nil
	}
	return "", fmt.Errorf("tipo de entidad sin ciclo de vida: %s", kind)
}

// isForbidden decide si un rechazo debe dejar nota en el historial.
func isForbidden(err error) bool {
	return errors.Is(err, domain.ErrForbidden)
}

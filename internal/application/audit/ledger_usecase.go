// Package audit expone el historial append-only: historial por entidad, eventos de
// autenticación y la verificación de consistencia estado ↔ historial.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/domain/policy"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// LedgerUseCase consultas sobre el historial. Las escrituras de transiciones las hacen
// los casos de uso de lifecycle dentro de su transacción; Record cubre el resto
// (eventos de autenticación).
type LedgerUseCase struct {
	auditRepo     repository.AuditRepository
	equipmentRepo repository.EquipmentRepository
	requestRepo   repository.ServiceRequestRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	auditRepo repository.AuditRepository,
	equipmentRepo repository.EquipmentRepository,
	requestRepo repository.ServiceRequestRepository,
) *LedgerUseCase {
	return &LedgerUseCase{auditRepo: auditRepo, equipmentRepo: equipmentRepo, requestRepo: requestRepo}
}

// Record agrega una entrada y devuelve su ID. Solo falla si el almacenamiento no está disponible.
func (uc *LedgerUseCase) Record(ctx context.Context, entry *entity.AuditEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// History devuelve el historial completo de una entidad, más antiguo primero.
// Un técnico solo ve las entradas producidas por él mismo.
// Sin escrituras de por medio, dos llamadas devuelven la misma secuencia.
func (uc *LedgerUseCase) History(ctx context.Context, actor *entity.User, kind entity.EntityKind, id string) (*dto.HistoryResponse, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceAudit)
	if err != nil {
		return nil, err
	}
	if _, err := uc.currentStatus(ctx, kind, id); err != nil {
		return nil, err
	}
	actorFilter := ""
	if scope == policy.ScopeOwnActions {
		actorFilter = actor.ID
	}
	entries, err := uc.auditRepo.History(ctx, kind, id, actorFilter)
	if err != nil {
		return nil, err
	}
	out := &dto.HistoryResponse{
		EntityKind: string(kind),
		EntityID:   id,
		Entries:    make([]dto.AuditEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, ToAuditEntryResponse(e))
	}
	return out, nil
}

// Entries igual que History pero devuelve las entidades (para reportes).
func (uc *LedgerUseCase) Entries(ctx context.Context, actor *entity.User, kind entity.EntityKind, id string) ([]*entity.AuditEntry, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceAudit)
	if err != nil {
		return nil, err
	}
	if _, err := uc.currentStatus(ctx, kind, id); err != nil {
		return nil, err
	}
	actorFilter := ""
	if scope == policy.ScopeOwnActions {
		actorFilter = actor.ID
	}
	return uc.auditRepo.History(ctx, kind, id, actorFilter)
}

// Logins pagina los eventos de autenticación, más reciente primero.
func (uc *LedgerUseCase) Logins(ctx context.Context, actor *entity.User, q dto.LoginListQuery, page dto.PageRequest) (*dto.ListResponse[dto.LoginEventResponse], error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceAudit)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	if err := validation.Struct(page); err != nil {
		return nil, err
	}
	filter := repository.LoginFilter{ActorID: q.ActorID, Event: q.Event}
	if scope == policy.ScopeOwnActions {
		if q.ActorID != "" && q.ActorID != actor.ID {
			return dto.NewListResponse[dto.LoginEventResponse](nil, 0, page), nil
		}
		filter.ActorID = actor.ID
	}
	if q.From != "" {
		from, _ := time.Parse(time.DateOnly, q.From)
		filter.From = &from
	}
	if q.To != "" {
		to, _ := time.Parse(time.DateOnly, q.To)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, validation.Field("to", "gtfield=from")
	}

	list, total, err := uc.auditRepo.ListLogins(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoginEventResponse, 0, len(list))
	for _, e := range list {
		ev := e.AsLoginEvent()
		items = append(items, dto.LoginEventResponse{
			ID:         ev.ID,
			ActorID:    ev.ActorID,
			Email:      ev.Email,
			Event:      ev.Event,
			Success:    ev.Success,
			Source:     ev.Source,
			OccurredAt: ev.OccurredAt,
		})
	}
	return dto.NewListResponse(items, total, page), nil
}

// Verify compara el estado almacenado con la última entrada del historial.
// Una entidad sin entradas es consistente si sigue en su estado inicial.
// Requiere lectura completa del historial (admin o manager).
func (uc *LedgerUseCase) Verify(ctx context.Context, actor *entity.User, kind entity.EntityKind, id string) (*dto.ConsistencyResponse, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceAudit)
	if err != nil {
		return nil, err
	}
	if scope != policy.ScopeAll {
		return nil, fmt.Errorf("%w: la verificación requiere el historial completo", domain.ErrForbidden)
	}
	current, err := uc.currentStatus(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	entries, err := uc.auditRepo.History(ctx, kind, id, "")
	if err != nil {
		return nil, err
	}
	out := &dto.ConsistencyResponse{
		EntityKind:    string(kind),
		EntityID:      id,
		CurrentStatus: current,
		Entries:       len(entries),
	}
	if len(entries) == 0 {
		out.LedgerStatus = initialStatus(kind)
	} else {
		out.LedgerStatus = entries[len(entries)-1].NewStatus
	}
	out.Consistent = out.LedgerStatus == current
	return out, nil
}

// currentStatus comprueba que la entidad exista y devuelve su estado almacenado.
func (uc *LedgerUseCase) currentStatus(ctx context.Context, kind entity.EntityKind, id string) (string, error) {
	switch kind {
	case entity.KindEquipment:
		e, err := uc.equipmentRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if e == nil {
			return "", fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
		}
		return string(e.Status), nil
	case entity.KindRequest:
		r, err := uc.requestRepo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if r == nil {
			return "", fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		return string(r.Status), nil
	}
	return "", validation.Field("kind", "oneof=equipment request")
}

func initialStatus(kind entity.EntityKind) string {
	if kind == entity.KindEquipment {
		return string(lifecycle.InitialEquipmentStatus)
	}
	return string(lifecycle.InitialRequestStatus)
}

// ParseKind traduce el segmento de ruta al tipo de entidad con ciclo de vida.
func ParseKind(s string) (entity.EntityKind, error) {
	switch s {
	case "equipment":
		return entity.KindEquipment, nil
	case "request", "requests":
		return entity.KindRequest, nil
	}
	return "", validation.Field("kind", "oneof=equipment request")
}

// ToAuditEntryResponse proyección de una entrada para el cable.
func ToAuditEntryResponse(e *entity.AuditEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:          e.ID,
		Seq:         e.Seq,
		EntityKind:  string(e.EntityKind),
		EntityID:    e.EntityID,
		ActorID:     e.ActorID,
		PriorStatus: e.PriorStatus,
		NewStatus:   e.NewStatus,
		Accepted:    e.Accepted,
		Note:        e.Note,
		OccurredAt:  e.OccurredAt,
	}
}

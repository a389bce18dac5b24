package lifecycle

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
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// RequestUseCase aplica las reglas de negocio de solicitudes de servicio.
type RequestUseCase struct {
	repo     repository.ServiceRequestRepository
	txRunner TxRunner
	log      *logger.Logger
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(repo repository.ServiceRequestRepository, txRunner TxRunner, log *logger.Logger) *RequestUseCase {
	return &RequestUseCase{repo: repo, txRunner: txRunner, log: log.Component("requests")}
}

// Create levanta una solicitud en estado pending a nombre del actor.
// Si referencia un equipo, éste debe existir, ser visible para el actor y no estar retirado;
// la comprobación se hace con el equipo bloqueado para que no se retire a mitad del alta.
func (uc *RequestUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateServiceRequest) (*dto.ServiceRequestResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionCreate, policy.ResourceRequest); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	equipmentScope, _ := policy.Authorize(actor, policy.ActionRead, policy.ResourceEquipment)

	now := time.Now().UTC()
	r := &entity.ServiceRequest{
		ID:          uuid.New().String(),
		RequesterID: actor.ID,
		EquipmentID: in.EquipmentID,
		Description: in.Description,
		Status:      lifecycle.InitialRequestStatus,
		UpdatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		requestRepo repository.ServiceRequestRepository,
		_ repository.AuditRepository,
	) error {
		if r.EquipmentID != "" {
			e, err := equipmentRepo.Lock(ctx, r.EquipmentID)
			if err != nil {
				return err
			}
			if e == nil || !equipmentVisible(equipmentScope, actor, e) {
				return fmt.Errorf("%w: el equipo %s no existe", domain.ErrInvalidReference, r.EquipmentID)
			}
			if e.Status == entity.EquipmentWithdrawn {
				return fmt.Errorf("%w: el equipo %s está retirado", domain.ErrInvalidReference, r.EquipmentID)
			}
		}
		return requestRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(r, actor), nil
}

// GetByID devuelve la solicitud si el actor puede verla; si no, NotFound.
func (uc *RequestUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*dto.ServiceRequestResponse, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceRequest)
	if err != nil {
		return nil, err
	}
	r, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requestVisible(scope, actor, r) {
		return nil, requestNotFound(id)
	}
	return toRequestResponse(r, actor), nil
}

// List pagina las solicitudes visibles. Un usuario estándar solo ve las suyas.
func (uc *RequestUseCase) List(ctx context.Context, actor *entity.User, q dto.ServiceRequestListQuery, page dto.PageRequest) (*dto.ListResponse[dto.ServiceRequestResponse], error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceRequest)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	if err := validation.Struct(page); err != nil {
		return nil, err
	}
	filter := repository.ServiceRequestFilter{
		Status:      entity.RequestStatus(q.Status),
		RequesterID: q.RequesterID,
		EquipmentID: q.EquipmentID,
	}
	if scope == policy.ScopeOwn {
		if q.RequesterID != "" && q.RequesterID != actor.ID {
			return dto.NewListResponse[dto.ServiceRequestResponse](nil, 0, page), nil
		}
		filter.RequesterID = actor.ID
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ServiceRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRequestResponse(r, actor))
	}
	return dto.NewListResponse(items, total, page), nil
}

// Update corrige la descripción de una solicitud que aún no terminó.
func (uc *RequestUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateServiceRequest) (*dto.ServiceRequestResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionUpdate, policy.ResourceRequest); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	r, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.RequestTerminal(r.Status) {
		return nil, fmt.Errorf("%w: la solicitud ya está %s", domain.ErrConflict, r.Status)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	r.UpdatedBy = actor.ID
	r.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return toRequestResponse(r, actor), nil
}

// Transition mueve la solicitud al estado pedido con el mismo orden de validación
// y la misma atomicidad que EquipmentUseCase.Transition.
func (uc *RequestUseCase) Transition(ctx context.Context, actor *entity.User, id string, in dto.TransitionRequest) (*dto.ServiceRequestResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	to := entity.RequestStatus(in.Status)
	if !to.Valid() {
		return nil, validation.Field("status", "oneof")
	}
	expected := entity.RequestStatus(in.ExpectedStatus)
	if expected != "" && !expected.Valid() {
		return nil, validation.Field("expected_status", "oneof")
	}

	r, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceRequest)
	if err != nil {
		deniedNote(ctx, uc.txRunner, uc.log, entity.KindRequest, id, actor, string(to), err, now)
		return nil, err
	}
	if !requestVisible(scope, actor, r) {
		return nil, requestNotFound(id)
	}

	from := r.Status
	if expected != "" && expected != from {
		return nil, fmt.Errorf("%w: la solicitud está en %s, no en %s", domain.ErrConflict, from, expected)
	}
	if err := lifecycle.CheckRequest(actor.Role, from, to); err != nil {
		if isForbidden(err) {
			deniedNote(ctx, uc.txRunner, uc.log, entity.KindRequest, id, actor, string(to), err, now)
		}
		return nil, err
	}
	if _, err := policy.Authorize(actor, policy.ActionTransition, policy.ResourceRequest); err != nil {
		deniedNote(ctx, uc.txRunner, uc.log, entity.KindRequest, id, actor, string(to), err, now)
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.EquipmentRepository,
		requestRepo repository.ServiceRequestRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := requestRepo.UpdateStatus(ctx, id, from, to, actor.ID, now); err != nil {
			return err
		}
		return auditRepo.Append(ctx, acceptedEntry(entity.KindRequest, id, actor.ID, string(from), string(to), in.Note, now))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug().Str("request_id", id).Str("actor_id", actor.ID).Str("from", string(from)).Str("to", string(to)).Msg("transición aplicada")
	r.Status = to
	r.UpdatedBy = actor.ID
	r.UpdatedAt = now
	return toRequestResponse(r, actor), nil
}

func (uc *RequestUseCase) load(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, requestNotFound(id)
	}
	return r, nil
}

func requestVisible(scope policy.Scope, actor *entity.User, r *entity.ServiceRequest) bool {
	if scope == policy.ScopeOwn {
		return r.RequesterID == actor.ID
	}
	return scope == policy.ScopeAll
}

func requestNotFound(id string) error {
	return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
}

func toRequestResponse(r *entity.ServiceRequest, actor *entity.User) *dto.ServiceRequestResponse {
	next := []string{}
	if policy.Allowed(actor, policy.ActionTransition, policy.ResourceRequest) {
		for _, s := range lifecycle.NextRequest(actor.Role, r.Status) {
			next = append(next, string(s))
		}
	}
	return &dto.ServiceRequestResponse{
		ID:                 r.ID,
		RequesterID:        r.RequesterID,
		EquipmentID:        r.EquipmentID,
		Description:        r.Description,
		Status:             string(r.Status),
		UpdatedBy:          r.UpdatedBy,
		AllowedTransitions: next,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

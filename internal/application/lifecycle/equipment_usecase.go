// Package lifecycle contiene los casos de uso de equipos y solicitudes: altas, consultas
// con visibilidad por rol y transiciones de estado registradas en el historial.
package lifecycle

import (
	"context"
	"errors"
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

// EquipmentUseCase aplica las reglas de negocio de equipos.
type EquipmentUseCase struct {
	repo        repository.EquipmentRepository
	catalogRepo repository.CatalogRepository
	txRunner    TxRunner
	log         *logger.Logger
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(
	repo repository.EquipmentRepository,
	catalogRepo repository.CatalogRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *EquipmentUseCase {
	return &EquipmentUseCase{repo: repo, catalogRepo: catalogRepo, txRunner: txRunner, log: log.Component("equipment")}
}

// Create registra un equipo en estado operational. La creación no escribe historial:
// la primera entrada corresponde a la primera transición.
func (uc *EquipmentUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionCreate, policy.ResourceEquipment); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := uc.checkDepartment(ctx, in.Department); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := &entity.Equipment{
		ID:         uuid.New().String(),
		Type:       in.Type,
		Model:      in.Model,
		Serial:     in.Serial,
		Department: in.Department,
		Status:     lifecycle.InitialEquipmentStatus,
		UpdatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toEquipmentResponse(e, actor), nil
}

// GetByID devuelve el equipo si el actor puede verlo; si no, NotFound.
func (uc *EquipmentUseCase) GetByID(ctx context.Context, actor *entity.User, id string) (*dto.EquipmentResponse, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceEquipment)
	if err != nil {
		return nil, err
	}
	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !equipmentVisible(scope, actor, e) {
		return nil, equipmentNotFound(id)
	}
	return toEquipmentResponse(e, actor), nil
}

// List pagina los equipos visibles para el actor.
// Un usuario estándar solo ve su departamento, sin importar el filtro pedido.
func (uc *EquipmentUseCase) List(ctx context.Context, actor *entity.User, q dto.EquipmentListQuery, page dto.PageRequest) (*dto.ListResponse[dto.EquipmentResponse], error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceEquipment)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	if err := validation.Struct(page); err != nil {
		return nil, err
	}
	filter := repository.EquipmentFilter{
		Status:     entity.EquipmentStatus(q.Status),
		Department: q.Department,
		Type:       q.Type,
	}
	if scope == policy.ScopeOwnDepartment {
		if q.Department != "" && q.Department != actor.Department {
			return dto.NewListResponse[dto.EquipmentResponse](nil, 0, page), nil
		}
		filter.Department = actor.Department
	}
	list, total, err := uc.repo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.EquipmentResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEquipmentResponse(e, actor))
	}
	return dto.NewListResponse(items, total, page), nil
}

// Update modifica los campos descriptivos de un equipo no retirado. El estado nunca cambia por aquí.
func (uc *EquipmentUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateEquipmentRequest) (*dto.EquipmentResponse, error) {
	if _, err := policy.Authorize(actor, policy.ActionUpdate, policy.ResourceEquipment); err != nil {
		return nil, err
	}
	in = in.Trimmed()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if lifecycle.EquipmentTerminal(e.Status) {
		return nil, fmt.Errorf("%w: el equipo %s está retirado", domain.ErrConflict, id)
	}
	if in.Type != nil {
		e.Type = *in.Type
	}
	if in.Model != nil {
		e.Model = *in.Model
	}
	if in.Serial != nil {
		e.Serial = *in.Serial
	}
	if in.Department != nil {
		if err := uc.checkDepartment(ctx, *in.Department); err != nil {
			return nil, err
		}
		e.Department = *in.Department
	}
	e.UpdatedBy = actor.ID
	e.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toEquipmentResponse(e, actor), nil
}

// Transition mueve el equipo al estado pedido.
//
// Orden de validación:
//  1. existencia y visibilidad (NotFound)
//  2. estado esperado por el cliente (Conflict)
//  3. legalidad del movimiento, independiente del rol (InvalidTransition)
//  4. rol (Forbidden, con nota en el historial)
//
// El cambio de estado es condicional y se confirma en la misma transacción que su
// entrada de historial; si otro actor movió el equipo entre la lectura y la escritura
// el resultado es Conflict.
func (uc *EquipmentUseCase) Transition(ctx context.Context, actor *entity.User, id string, in dto.TransitionRequest) (*dto.EquipmentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	to := entity.EquipmentStatus(in.Status)
	if !to.Valid() {
		return nil, validation.Field("status", "oneof")
	}
	expected := entity.EquipmentStatus(in.ExpectedStatus)
	if expected != "" && !expected.Valid() {
		return nil, validation.Field("expected_status", "oneof")
	}

	e, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceEquipment)
	if err != nil {
		deniedNote(ctx, uc.txRunner, uc.log, entity.KindEquipment, id, actor, string(to), err, now)
		return nil, err
	}
	if !equipmentVisible(scope, actor, e) {
		return nil, equipmentNotFound(id)
	}

	from := e.Status
	if expected != "" && expected != from {
		return nil, fmt.Errorf("%w: el equipo está en %s, no en %s", domain.ErrConflict, from, expected)
	}
	if err := lifecycle.CheckEquipment(actor.Role, from, to); err != nil {
		if isForbidden(err) {
			deniedNote(ctx, uc.txRunner, uc.log, entity.KindEquipment, id, actor, string(to), err, now)
		}
		return nil, err
	}
	if _, err := policy.Authorize(actor, policy.ActionTransition, policy.ResourceEquipment); err != nil {
		deniedNote(ctx, uc.txRunner, uc.log, entity.KindEquipment, id, actor, string(to), err, now)
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(
		equipmentRepo repository.EquipmentRepository,
		_ repository.ServiceRequestRepository,
		auditRepo repository.AuditRepository,
	) error {
		if err := equipmentRepo.UpdateStatus(ctx, id, from, to, actor.ID, now); err != nil {
			return err
		}
		return auditRepo.Append(ctx, acceptedEntry(entity.KindEquipment, id, actor.ID, string(from), string(to), in.Note, now))
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Info().Str("equipment_id", id).Str("from", string(from)).Str("to", string(to)).Msg("transición concurrente descartada")
		}
		return nil, err
	}

	uc.log.Debug().Str("equipment_id", id).Str("actor_id", actor.ID).Str("from", string(from)).Str("to", string(to)).Msg("transición aplicada")
	e.Status = to
	e.UpdatedBy = actor.ID
	e.UpdatedAt = now
	return toEquipmentResponse(e, actor), nil
}

func (uc *EquipmentUseCase) load(ctx context.Context, id string) (*entity.Equipment, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, equipmentNotFound(id)
	}
	return e, nil
}

func (uc *EquipmentUseCase) checkDepartment(ctx context.Context, code string) error {
	cat, err := uc.catalogRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !entity.Has(cat.Departments, code) {
		return validation.Field("department", "catalog")
	}
	return nil
}

func equipmentVisible(scope policy.Scope, actor *entity.User, e *entity.Equipment) bool {
	if scope == policy.ScopeOwnDepartment {
		return e.Department == actor.Department
	}
	return scope == policy.ScopeAll
}

func equipmentNotFound(id string) error {
	return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
}

func toEquipmentResponse(e *entity.Equipment, actor *entity.User) *dto.EquipmentResponse {
	next := []string{}
	if policy.Allowed(actor, policy.ActionTransition, policy.ResourceEquipment) {
		for _, s := range lifecycle.NextEquipment(actor.Role, e.Status) {
			next = append(next, string(s))
		}
	}
	return &dto.EquipmentResponse{
		ID:                 e.ID,
		Type:               e.Type,
		Model:              e.Model,
		Serial:             e.Serial,
		Department:         e.Department,
		Status:             string(e.Status),
		UpdatedBy:          e.UpdatedBy,
		AllowedTransitions: next,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// Package policy concentra la matriz rol → permisos. Es la única fuente de verdad
// para decidir si un actor puede ejecutar una acción sobre un tipo de recurso.
package policy

import (
	"fmt"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// Action acción sobre un recurso.
type Action string

// Acciones.
const (
	ActionCreate     Action = "create"
	ActionRead       Action = "read"
	ActionUpdate     Action = "update"
	ActionTransition Action = "transition"
)

// Actions todas las acciones, para recorrer la matriz completa.
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionTransition}

// Resource tipo de recurso protegido.
type Resource string

// Recursos.
const (
	ResourceEquipment Resource = "equipment"
	ResourceRequest   Resource = "request"
	ResourceUser      Resource = "user"
	ResourceAudit     Resource = "audit"
)

// Resources todos los recursos.
var Resources = []Resource{ResourceEquipment, ResourceRequest, ResourceUser, ResourceAudit}

// Scope alcance con el que se concede un permiso.
type Scope int

const (
	ScopeNone          Scope = iota
	ScopeAll                 // sin restricción
	ScopeOwnDepartment       // solo recursos del departamento del actor
	ScopeOwn                 // solo recursos propios (ej. solicitudes levantadas por el actor)
	ScopeOwnActions          // solo entradas del historial producidas por el actor
)

// String para logs.
func (s Scope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeOwnDepartment:
		return "own_department"
	case ScopeOwn:
		return "own"
	case ScopeOwnActions:
		return "own_actions"
	default:
		return "none"
	}
}

type cell struct {
	resource Resource
	action   Action
}

// matrix celdas concedidas por rol; una celda ausente es un Forbidden.
// Las reglas finas de cada transición viven en el paquete lifecycle.
var matrix = map[entity.Role]map[cell]Scope{
	entity.RoleAdmin: {
		{ResourceEquipment, ActionCreate}:     ScopeAll,
		{ResourceEquipment, ActionRead}:       ScopeAll,
		{ResourceEquipment, ActionUpdate}:     ScopeAll,
		{ResourceEquipment, ActionTransition}: ScopeAll,
		{ResourceRequest, ActionCreate}:       ScopeAll,
		{ResourceRequest, ActionRead}:         ScopeAll,
		{ResourceRequest, ActionUpdate}:       ScopeAll,
		{ResourceRequest, ActionTransition}:   ScopeAll,
		{ResourceUser, ActionCreate}:          ScopeAll,
		{ResourceUser, ActionRead}:            ScopeAll,
		{ResourceUser, ActionUpdate}:          ScopeAll,
		{ResourceAudit, ActionRead}:           ScopeAll,
	},
	entity.RoleManager: {
		{ResourceEquipment, ActionCreate}:     ScopeAll,
		{ResourceEquipment, ActionRead}:       ScopeAll,
		{ResourceEquipment, ActionTransition}: ScopeAll,
		{ResourceRequest, ActionCreate}:       ScopeAll,
		{ResourceRequest, ActionRead}:         ScopeAll,
		{ResourceRequest, ActionTransition}:   ScopeAll,
		{ResourceUser, ActionRead}:            ScopeAll,
		{ResourceAudit, ActionRead}:           ScopeAll,
	},
	entity.RoleTechnician: {
		{ResourceEquipment, ActionRead}:       ScopeAll,
		{ResourceEquipment, ActionTransition}: ScopeAll,
		{ResourceRequest, ActionRead}:         ScopeAll,
		{ResourceRequest, ActionTransition}:   ScopeAll,
		{ResourceAudit, ActionRead}:           ScopeOwnActions,
	},
	entity.RoleUser: {
		{ResourceEquipment, ActionRead}: ScopeOwnDepartment,
		{ResourceRequest, ActionCreate}: ScopeOwn,
		{ResourceRequest, ActionRead}:   ScopeOwn,
	},
}

// Authorize decide si el actor puede ejecutar action sobre resource y con qué alcance.
// Falla cerrado: actor nulo, inactivo, rol desconocido o celda ausente → ErrForbidden.
func Authorize(actor *entity.User, action Action, resource Resource) (Scope, error) {
	if actor == nil {
		return ScopeNone, fmt.Errorf("%w: actor ausente", domain.ErrForbidden)
	}
	if !actor.IsActive {
		return ScopeNone, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	cells, ok := matrix[actor.Role]
	if !ok {
		return ScopeNone, fmt.Errorf("%w: rol desconocido %q", domain.ErrForbidden, actor.Role)
	}
	scope, ok := cells[cell{resource, action}]
	if !ok {
		return ScopeNone, fmt.Errorf("%w: el rol %s no puede %s %s", domain.ErrForbidden, actor.Role, action, resource)
	}
	return scope, nil
}

// Allowed versión booleana de Authorize.
func Allowed(actor *entity.User, action Action, resource Resource) bool {
	_, err := Authorize(actor, action, resource)
	return err == nil
}

// Package lifecycle define las máquinas de estado de Equipment y ServiceRequest
// como tablas estado × estado → roles permitidos.
package lifecycle

import (
	"fmt"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

type roleSet map[entity.Role]struct{}

func roles(rs ...entity.Role) roleSet {
	s := make(roleSet, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

var (
	staff   = roles(entity.RoleTechnician, entity.RoleManager, entity.RoleAdmin)
	leaders = roles(entity.RoleManager, entity.RoleAdmin)
)

// equipmentTable transiciones de Equipment. withdrawn no tiene salidas.
var equipmentTable = map[entity.EquipmentStatus]map[entity.EquipmentStatus]roleSet{
	entity.EquipmentOperational: {
		entity.EquipmentUnderReview: staff,
		entity.EquipmentWithdrawn:   leaders,
	},
	entity.EquipmentUnderReview: {
		entity.EquipmentOperational: staff,
		entity.EquipmentDamaged:     staff,
		entity.EquipmentWithdrawn:   leaders,
	},
	entity.EquipmentDamaged: {
		entity.EquipmentUnderReview: leaders, // re-evaluación
		entity.EquipmentWithdrawn:   leaders,
	},
}

// requestTable transiciones de ServiceRequest. resolved y closed no tienen salidas.
var requestTable = map[entity.RequestStatus]map[entity.RequestStatus]roleSet{
	entity.RequestPending: {
		entity.RequestInProcess: staff,
		entity.RequestClosed:    leaders,
	},
	entity.RequestInProcess: {
		entity.RequestResolved: staff,
		entity.RequestClosed:   leaders,
	},
}

// check aplica el orden de validación común: primero la legalidad del movimiento
// (independiente del rol), luego el rol.
func check(allowed roleSet, ok bool, role entity.Role, from, to string) error {
	if !ok {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
	}
	if _, permitted := allowed[role]; !permitted {
		return fmt.Errorf("%w: el rol %s no puede mover %s → %s", domain.ErrForbidden, role, from, to)
	}
	return nil
}

// CheckEquipment valida una transición de equipo para el rol dado.
func CheckEquipment(role entity.Role, from, to entity.EquipmentStatus) error {
	allowed, ok := equipmentTable[from][to]
	return check(allowed, ok, role, string(from), string(to))
}

// CheckRequest valida una transición de solicitud para el rol dado.
func CheckRequest(role entity.Role, from, to entity.RequestStatus) error {
	allowed, ok := requestTable[from][to]
	return check(allowed, ok, role, string(from), string(to))
}

// NextEquipment estados alcanzables desde from para el rol, en orden de presentación.
func NextEquipment(role entity.Role, from entity.EquipmentStatus) []entity.EquipmentStatus {
	out := []entity.EquipmentStatus{}
	for _, to := range entity.EquipmentStatuses {
		if CheckEquipment(role, from, to) == nil {
			out = append(out, to)
		}
	}
	return out
}

// NextRequest estados alcanzables desde from para el rol, en orden de presentación.
func NextRequest(role entity.Role, from entity.RequestStatus) []entity.RequestStatus {
	out := []entity.RequestStatus{}
	for _, to := range entity.RequestStatuses {
		if CheckRequest(role, from, to) == nil {
			out = append(out, to)
		}
	}
	return out
}

// EquipmentTerminal indica si el estado no admite más transiciones.
func EquipmentTerminal(s entity.EquipmentStatus) bool {
	return len(equipmentTable[s]) == 0
}

// RequestTerminal indica si el estado no admite más transiciones.
func RequestTerminal(s entity.RequestStatus) bool {
	return len(requestTable[s]) == 0
}

// InitialEquipmentStatus estado con el que nace un equipo.
const InitialEquipmentStatus = entity.EquipmentOperational

// InitialRequestStatus estado con el que nace una solicitud.
const InitialRequestStatus = entity.RequestPending

package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/lifecycle"
)

func TestCheckEquipment_Tabla(t *testing.T) {
	cases := []struct {
		from, to entity.EquipmentStatus
		role     entity.Role
		wantErr  error
	}{
		{entity.EquipmentOperational, entity.EquipmentUnderReview, entity.RoleTechnician, nil},
		{entity.EquipmentUnderReview, entity.EquipmentDamaged, entity.RoleTechnician, nil},
		{entity.EquipmentUnderReview, entity.EquipmentOperational, entity.RoleManager, nil},
		{entity.EquipmentDamaged, entity.EquipmentWithdrawn, entity.RoleManager, nil},
		{entity.EquipmentDamaged, entity.EquipmentUnderReview, entity.RoleAdmin, nil},
		{entity.EquipmentOperational, entity.EquipmentWithdrawn, entity.RoleTechnician, domain.ErrForbidden},
		{entity.EquipmentDamaged, entity.EquipmentUnderReview, entity.RoleTechnician, domain.ErrForbidden},
		{entity.EquipmentOperational, entity.EquipmentUnderReview, entity.RoleUser, domain.ErrForbidden},
		{entity.EquipmentOperational, entity.EquipmentDamaged, entity.RoleAdmin, domain.ErrInvalidTransition},
		{entity.EquipmentOperational, entity.EquipmentOperational, entity.RoleAdmin, domain.ErrInvalidTransition},
	}
	for _, tc := range cases {
		err := lifecycle.CheckEquipment(tc.role, tc.from, tc.to)
		if tc.wantErr == nil {
			assert.NoError(t, err, "%s: %s → %s", tc.role, tc.from, tc.to)
		} else {
			assert.ErrorIs(t, err, tc.wantErr, "%s: %s → %s", tc.role, tc.from, tc.to)
		}
	}
}

// Desde un estado terminal nada es legal, sea cual sea el rol: la respuesta es
// InvalidTransition y nunca Forbidden.
func TestTerminales_InvalidTransitionParaTodoRol(t *testing.T) {
	for _, role := range entity.Roles {
		for _, to := range entity.EquipmentStatuses {
			err := lifecycle.CheckEquipment(role, entity.EquipmentWithdrawn, to)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s withdrawn → %s", role, to)
		}
		for _, from := range []entity.RequestStatus{entity.RequestResolved, entity.RequestClosed} {
			for _, to := range entity.RequestStatuses {
				err := lifecycle.CheckRequest(role, from, to)
				assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s %s → %s", role, from, to)
			}
		}
	}
	assert.True(t, lifecycle.EquipmentTerminal(entity.EquipmentWithdrawn))
	assert.False(t, lifecycle.EquipmentTerminal(entity.EquipmentDamaged))
	assert.True(t, lifecycle.RequestTerminal(entity.RequestResolved))
	assert.True(t, lifecycle.RequestTerminal(entity.RequestClosed))
	assert.False(t, lifecycle.RequestTerminal(entity.RequestPending))
}

func TestCheckRequest_Tabla(t *testing.T) {
	assert.NoError(t, lifecycle.CheckRequest(entity.RoleTechnician, entity.RequestPending, entity.RequestInProcess))
	assert.NoError(t, lifecycle.CheckRequest(entity.RoleTechnician, entity.RequestInProcess, entity.RequestResolved))
	assert.NoError(t, lifecycle.CheckRequest(entity.RoleManager, entity.RequestPending, entity.RequestClosed))
	assert.ErrorIs(t, lifecycle.CheckRequest(entity.RoleTechnician, entity.RequestPending, entity.RequestClosed), domain.ErrForbidden)
	assert.ErrorIs(t, lifecycle.CheckRequest(entity.RoleUser, entity.RequestPending, entity.RequestInProcess), domain.ErrForbidden)
	assert.ErrorIs(t, lifecycle.CheckRequest(entity.RoleAdmin, entity.RequestPending, entity.RequestResolved), domain.ErrInvalidTransition)
}

func TestNext(t *testing.T) {
	assert.Equal(t,
		[]entity.EquipmentStatus{entity.EquipmentOperational, entity.EquipmentDamaged, entity.EquipmentWithdrawn},
		lifecycle.NextEquipment(entity.RoleManager, entity.EquipmentUnderReview))
	assert.Equal(t,
		[]entity.EquipmentStatus{entity.EquipmentOperational, entity.EquipmentDamaged},
		lifecycle.NextEquipment(entity.RoleTechnician, entity.EquipmentUnderReview))
	assert.Empty(t, lifecycle.NextEquipment(entity.RoleUser, entity.EquipmentOperational))
	assert.NotNil(t, lifecycle.NextEquipment(entity.RoleAdmin, entity.EquipmentWithdrawn))

	assert.Equal(t,
		[]entity.RequestStatus{entity.RequestInProcess, entity.RequestClosed},
		lifecycle.NextRequest(entity.RoleAdmin, entity.RequestPending))
	assert.Empty(t, lifecycle.NextRequest(entity.RoleTechnician, entity.RequestResolved))
}

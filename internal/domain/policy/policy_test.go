package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/policy"
)

func actor(role entity.Role) *entity.User {
	return &entity.User{ID: "u-" + string(role), Role: role, IsActive: true, Department: "SIS"}
}

// grants matriz esperada; cualquier combinación ausente debe ser Forbidden.
var grants = map[entity.Role]map[policy.Resource]map[policy.Action]policy.Scope{
	entity.RoleAdmin: {
		policy.ResourceEquipment: {policy.ActionCreate: policy.ScopeAll, policy.ActionRead: policy.ScopeAll, policy.ActionUpdate: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceRequest:   {policy.ActionCreate: policy.ScopeAll, policy.ActionRead: policy.ScopeAll, policy.ActionUpdate: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceUser:      {policy.ActionCreate: policy.ScopeAll, policy.ActionRead: policy.ScopeAll, policy.ActionUpdate: policy.ScopeAll},
		policy.ResourceAudit:     {policy.ActionRead: policy.ScopeAll},
	},
	entity.RoleManager: {
		policy.ResourceEquipment: {policy.ActionCreate: policy.ScopeAll, policy.ActionRead: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceRequest:   {policy.ActionCreate: policy.ScopeAll, policy.ActionRead: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceUser:      {policy.ActionRead: policy.ScopeAll},
		policy.ResourceAudit:     {policy.ActionRead: policy.ScopeAll},
	},
	entity.RoleTechnician: {
		policy.ResourceEquipment: {policy.ActionRead: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceRequest:   {policy.ActionRead: policy.ScopeAll, policy.ActionTransition: policy.ScopeAll},
		policy.ResourceAudit:     {policy.ActionRead: policy.ScopeOwnActions},
	},
	entity.RoleUser: {
		policy.ResourceEquipment: {policy.ActionRead: policy.ScopeOwnDepartment},
		policy.ResourceRequest:   {policy.ActionCreate: policy.ScopeOwn, policy.ActionRead: policy.ScopeOwn},
	},
}

func TestAuthorize_MatrizCompleta(t *testing.T) {
	for _, role := range entity.Roles {
		for _, res := range policy.Resources {
			for _, act := range policy.Actions {
				want, granted := grants[role][res][act]
				scope, err := policy.Authorize(actor(role), act, res)
				if granted {
					require.NoError(t, err, "%s %s %s", role, act, res)
					assert.Equal(t, want, scope, "%s %s %s", role, act, res)
				} else {
					assert.ErrorIs(t, err, domain.ErrForbidden, "%s %s %s", role, act, res)
					assert.Equal(t, policy.ScopeNone, scope)
				}
			}
		}
	}
}

func TestAuthorize_FallaCerrado(t *testing.T) {
	t.Run("actor nulo", func(t *testing.T) {
		_, err := policy.Authorize(nil, policy.ActionRead, policy.ResourceEquipment)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("usuario inactivo", func(t *testing.T) {
		a := actor(entity.RoleAdmin)
		a.IsActive = false
		for _, act := range policy.Actions {
			_, err := policy.Authorize(a, act, policy.ResourceEquipment)
			assert.ErrorIs(t, err, domain.ErrForbidden, "%s", act)
		}
	})
	t.Run("rol desconocido", func(t *testing.T) {
		_, err := policy.Authorize(actor("superuser"), policy.ActionRead, policy.ResourceEquipment)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAllowed(t *testing.T) {
	assert.True(t, policy.Allowed(actor(entity.RoleManager), policy.ActionRead, policy.ResourceUser))
	assert.False(t, policy.Allowed(actor(entity.RoleTechnician), policy.ActionRead, policy.ResourceUser))
	assert.False(t, policy.Allowed(actor(entity.RoleUser), policy.ActionTransition, policy.ResourceRequest))
}

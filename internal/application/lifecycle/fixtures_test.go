package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/memory"
	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// env casos de uso sobre un store en memoria, con un usuario por rol.
type env struct {
	store     *memory.Store
	equipment *lifecycle.EquipmentUseCase
	requests  *lifecycle.RequestUseCase
	ledger    *audit.LedgerUseCase

	admin, manager, technician, user *entity.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore(nil)
	log := logger.Nop()
	e := &env{
		store:     s,
		equipment: lifecycle.NewEquipmentUseCase(s.Equipment(), s.Catalog(), s, log),
		requests:  lifecycle.NewRequestUseCase(s.Requests(), s, log),
		ledger:    audit.NewLedgerUseCase(s.Audit(), s.Equipment(), s.Requests()),
	}
	e.admin = e.addUser(t, "admin", entity.RoleAdmin, "SIS")
	e.manager = e.addUser(t, "manager", entity.RoleManager, "SIS")
	e.technician = e.addUser(t, "tech", entity.RoleTechnician, "SIS")
	e.user = e.addUser(t, "user", entity.RoleUser, "CON")
	return e
}

func (e *env) addUser(t *testing.T, id string, role entity.Role, dept string) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID: id, WorkerID: "W-" + id, Email: id + "@inst.edu", Role: role, IsActive: true,
		FullName: id, Department: dept, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *env) newEquipment(t *testing.T, serial, dept string) *dto.EquipmentResponse {
	t.Helper()
	out, err := e.equipment.Create(context.Background(), e.admin, dto.CreateEquipmentRequest{
		Type: "laptop", Model: "Latitude 5420", Serial: serial, Department: dept,
	})
	require.NoError(t, err)
	return out
}

func (e *env) moveEquipment(t *testing.T, actor *entity.User, id string, to entity.EquipmentStatus) {
	t.Helper()
	_, err := e.equipment.Transition(context.Background(), actor, id, dto.TransitionRequest{Status: string(to)})
	require.NoError(t, err)
}

func (e *env) newRequest(t *testing.T, actor *entity.User, equipmentID string) *dto.ServiceRequestResponse {
	t.Helper()
	out, err := e.requests.Create(context.Background(), actor, dto.CreateServiceRequest{
		EquipmentID: equipmentID, Description: "No enciende la pantalla",
	})
	require.NoError(t, err)
	return out
}

func firstPage(size int) dto.PageRequest {
	return dto.PageRequest{Page: 1, PageSize: size}
}

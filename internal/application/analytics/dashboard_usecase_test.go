package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/infrastructure/memory"
)

// Test interno: fija el reloj del caso de uso.
func setup(t *testing.T, now time.Time) (*DashboardUseCase, *memory.Store) {
	t.Helper()
	s := memory.NewStore(nil)
	uc := NewDashboardUseCase(s.Analytics())
	uc.now = func() time.Time { return now }
	return uc, s
}

func seed(t *testing.T, s *memory.Store, at time.Time) {
	t.Helper()
	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: "admin", Email: "a@i.edu", Role: entity.RoleAdmin, IsActive: true},
		{ID: "tech", Email: "t@i.edu", Role: entity.RoleTechnician, IsActive: true},
		{ID: "tech2", Email: "t2@i.edu", Role: entity.RoleTechnician, IsActive: true},
		{ID: "gone", Email: "g@i.edu", Role: entity.RoleUser, IsActive: false},
	} {
		require.NoError(t, s.Users().Create(ctx, u))
	}
	require.NoError(t, s.Equipment().Create(ctx, &entity.Equipment{ID: "e1", Serial: "1", Status: entity.EquipmentOperational}))
	require.NoError(t, s.Equipment().Create(ctx, &entity.Equipment{ID: "e2", Serial: "2", Status: entity.EquipmentDamaged}))
	require.NoError(t, s.Requests().Create(ctx, &entity.ServiceRequest{ID: "r1", RequesterID: "gone", Status: entity.RequestResolved, CreatedAt: at.Add(-10 * time.Hour)}))
	require.NoError(t, s.Requests().Create(ctx, &entity.ServiceRequest{ID: "r2", RequesterID: "gone", Status: entity.RequestResolved, CreatedAt: at.Add(-20 * time.Hour)}))

	au := s.Audit()
	require.NoError(t, au.Append(ctx, &entity.AuditEntry{EntityKind: entity.KindRequest, EntityID: "r1", ActorID: "tech", Accepted: true, PriorStatus: "in_process", NewStatus: "resolved", OccurredAt: at}))
	require.NoError(t, au.Append(ctx, &entity.AuditEntry{EntityKind: entity.KindRequest, EntityID: "r2", ActorID: "tech2", Accepted: true, PriorStatus: "in_process", NewStatus: "resolved", OccurredAt: at}))
	require.NoError(t, au.Append(ctx, &entity.AuditEntry{EntityKind: entity.KindLogin, ActorID: "tech", Event: entity.LoginSuccess, OccurredAt: at}))
	require.NoError(t, au.Append(ctx, &entity.AuditEntry{EntityKind: entity.KindLogin, ActorID: "tech2", Event: entity.LoginSuccess, OccurredAt: at.AddDate(0, 0, -1)}))
}

func TestStatistics_Admin(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) // miércoles
	uc, s := setup(t, now)
	seed(t, s, now)
	admin := &entity.User{ID: "admin", Role: entity.RoleAdmin, IsActive: true}

	out, err := uc.Statistics(context.Background(), admin, dto.StatisticsQuery{})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"operational": 1, "under_review": 0, "damaged": 1, "withdrawn": 0}, out.EquipmentByStatus)
	assert.Equal(t, map[string]int{"pending": 0, "in_process": 0, "resolved": 2, "closed": 0}, out.RequestsByStatus)
	assert.Equal(t, map[string]int{"admin": 1, "manager": 0, "technician": 2, "user": 1}, out.UsersByRole)
	require.NotNil(t, out.ActiveUsers)
	assert.Equal(t, 3, *out.ActiveUsers)
	assert.Equal(t, 1, *out.InactiveUsers)

	// ventana por defecto: 28 días hasta mañana, serie diaria densa
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), out.To)
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), out.From)
	require.Len(t, out.LoginsPerDay, 28)
	assert.Equal(t, 1, out.LoginsPerDay[27].Count)
	assert.Equal(t, 1, out.LoginsPerDay[26].Count)

	last := out.ResolutionsPerWeek[len(out.ResolutionsPerWeek)-1]
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), last.Start)
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, "15", out.AvgResolutionHours.String())
	assert.False(t, out.Scoped)
}

func TestStatistics_TecnicoSoloSusAcciones(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	uc, s := setup(t, now)
	seed(t, s, now)
	tech := &entity.User{ID: "tech", Role: entity.RoleTechnician, IsActive: true}

	out, err := uc.Statistics(context.Background(), tech, dto.StatisticsQuery{})
	require.NoError(t, err)
	assert.True(t, out.Scoped)
	assert.Equal(t, map[string]int{"operational": 1, "under_review": 0, "damaged": 1, "withdrawn": 0}, out.EquipmentByStatus,
		"los conteos por estado no dependen de quién hizo las transiciones")
	assert.Equal(t, 2, out.RequestsByStatus["resolved"])
	assert.Nil(t, out.UsersByRole)
	assert.Nil(t, out.ActiveUsers)
	assert.Equal(t, "10", out.AvgResolutionHours.String())
	assert.Equal(t, 1, out.ResolutionsPerWeek[len(out.ResolutionsPerWeek)-1].Count)
	assert.Equal(t, 0, out.LoginsPerDay[26].Count, "el login de otro técnico no cuenta")
}

func TestStatistics_Ventana(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)
	uc, _ := setup(t, now)
	admin := &entity.User{ID: "admin", Role: entity.RoleAdmin, IsActive: true}
	ctx := context.Background()

	out, err := uc.Statistics(ctx, admin, dto.StatisticsQuery{From: "2026-03-01", To: "2026-03-04"})
	require.NoError(t, err)
	assert.Len(t, out.LoginsPerDay, 3)
	assert.True(t, out.AvgResolutionHours.IsZero())

	_, err = uc.Statistics(ctx, admin, dto.StatisticsQuery{From: "2026-03-04", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Statistics(ctx, admin, dto.StatisticsQuery{From: "2024-01-01", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Statistics(ctx, admin, dto.StatisticsQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStatistics_UsuarioSinAcceso(t *testing.T) {
	uc, _ := setup(t, time.Now())
	_, err := uc.Statistics(context.Background(), &entity.User{ID: "u", Role: entity.RoleUser, IsActive: true}, dto.StatisticsQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStatistics_ErrorDeAlmacenamiento(t *testing.T) {
	uc, s := setup(t, time.Now())
	s.SetUnavailable(true)
	_, err := uc.Statistics(context.Background(), &entity.User{ID: "a", Role: entity.RoleAdmin, IsActive: true}, dto.StatisticsQuery{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

// Package analytics contiene los casos de uso de estadísticas del dashboard:
// conteos por estado, usuarios por rol y series derivadas del historial.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/policy"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

const (
	defaultWindowDays = 28  // ventana por defecto de las series
	maxWindowDays     = 366 // ventana máxima aceptada
)

// DashboardUseCase genera las estadísticas del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Todo lo que devuelve es una proyección determinista del estado y del historial:
// no mantiene contadores propios.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// Statistics construye DashboardData para la ventana pedida.
//
// Seis consultas en paralelo:
//  1. EquipmentByStatus
//  2. RequestsByStatus
//  3. UserCounts (solo si el actor puede leer usuarios)
//  4. LoginsPerDay
//  5. ResolutionsPerWeek
//  6. AvgResolutionHours
//
// Un técnico recibe las series del historial (4-6) limitadas a sus propias acciones.
// Los conteos por estado (1-2) son una foto del inventario, no del historial: siguen
// el permiso de lectura de equipos y solicitudes, que el técnico tiene sin restricción.
func (uc *DashboardUseCase) Statistics(ctx context.Context, actor *entity.User, q dto.StatisticsQuery) (*dto.DashboardData, error) {
	scope, err := policy.Authorize(actor, policy.ActionRead, policy.ResourceAudit)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	from, to, err := uc.window(q)
	if err != nil {
		return nil, err
	}
	filter := repository.StatsFilter{From: from, To: to}
	if scope == policy.ScopeOwnActions {
		filter.ActorID = actor.ID
	}
	withUsers := policy.Allowed(actor, policy.ActionRead, policy.ResourceUser)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type equipmentResult struct {
		counts map[entity.EquipmentStatus]int
		err    error
	}
	type requestsResult struct {
		counts map[entity.RequestStatus]int
		err    error
	}
	type usersResult struct {
		counts *repository.UserCounts
		err    error
	}
	type bucketsResult struct {
		buckets []repository.Bucket
		err     error
	}
	type avgResult struct {
		hours decimal.Decimal
		err   error
	}

	equipmentCh := make(chan equipmentResult, 1)
	requestsCh := make(chan requestsResult, 1)
	usersCh := make(chan usersResult, 1)
	loginsCh := make(chan bucketsResult, 1)
	resolutionsCh := make(chan bucketsResult, 1)
	avgCh := make(chan avgResult, 1)

	go func() {
		c, err := uc.analyticsRepo.EquipmentByStatus(ctx)
		equipmentCh <- equipmentResult{c, err}
	}()
	go func() {
		c, err := uc.analyticsRepo.RequestsByStatus(ctx)
		requestsCh <- requestsResult{c, err}
	}()
	go func() {
		if !withUsers {
			usersCh <- usersResult{}
			return
		}
		c, err := uc.analyticsRepo.UserCounts(ctx)
		usersCh <- usersResult{c, err}
	}()
	go func() {
		b, err := uc.analyticsRepo.LoginsPerDay(ctx, filter)
		loginsCh <- bucketsResult{b, err}
	}()
	go func() {
		b, err := uc.analyticsRepo.ResolutionsPerWeek(ctx, filter)
		resolutionsCh <- bucketsResult{b, err}
	}()
	go func() {
		h, err := uc.analyticsRepo.AvgResolutionHours(ctx, filter)
		avgCh <- avgResult{h, err}
	}()

	equipment := <-equipmentCh
	requests := <-requestsCh
	users := <-usersCh
	logins := <-loginsCh
	resolutions := <-resolutionsCh
	avg := <-avgCh

	if equipment.err != nil {
		return nil, fmt.Errorf("dashboard: equipos por estado: %w", equipment.err)
	}
	if requests.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes por estado: %w", requests.err)
	}
	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}
	if logins.err != nil {
		return nil, fmt.Errorf("dashboard: logins por día: %w", logins.err)
	}
	if resolutions.err != nil {
		return nil, fmt.Errorf("dashboard: resoluciones por semana: %w", resolutions.err)
	}
	if avg.err != nil {
		return nil, fmt.Errorf("dashboard: tiempo de resolución: %w", avg.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardData{
		EquipmentByStatus:  make(map[string]int, len(entity.EquipmentStatuses)),
		RequestsByStatus:   make(map[string]int, len(entity.RequestStatuses)),
		LoginsPerDay:       dense(logins.buckets, from, to, repository.DayStart, 1),
		ResolutionsPerWeek: dense(resolutions.buckets, from, to, repository.WeekStart, 7),
		AvgResolutionHours: avg.hours.Round(2),
		From:               from,
		To:                 to,
		Scoped:             filter.ActorID != "",
	}
	for _, s := range entity.EquipmentStatuses {
		out.EquipmentByStatus[string(s)] = equipment.counts[s]
	}
	for _, s := range entity.RequestStatuses {
		out.RequestsByStatus[string(s)] = requests.counts[s]
	}
	if users.counts != nil {
		out.UsersByRole = make(map[string]int, len(entity.Roles))
		for _, r := range entity.Roles {
			out.UsersByRole[string(r)] = users.counts.ByRole[r]
		}
		active, inactive := users.counts.Active, users.counts.Inactive
		out.ActiveUsers = &active
		out.InactiveUsers = &inactive
	}
	return out, nil
}

// window resuelve [from, to) en UTC. Sin fechas: los últimos 28 días hasta mañana
// (to exclusiva, así hoy queda incluido).
func (uc *DashboardUseCase) window(q dto.StatisticsQuery) (time.Time, time.Time, error) {
	to := repository.DayStart(uc.now()).AddDate(0, 0, 1)
	if q.To != "" {
		t, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return time.Time{}, time.Time{}, validation.Field("to", "datetime=2006-01-02")
		}
		to = t.UTC()
	}
	from := to.AddDate(0, 0, -defaultWindowDays)
	if q.From != "" {
		f, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return time.Time{}, time.Time{}, validation.Field("from", "datetime=2006-01-02")
		}
		from = f.UTC()
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, validation.Field("to", "gtfield=from")
	}
	if to.Sub(from) > maxWindowDays*24*time.Hour {
		return time.Time{}, time.Time{}, validation.Field("from", fmt.Sprintf("max_window=%dd", maxWindowDays))
	}
	return from, to, nil
}

// dense completa la serie con ceros para que cada ventana de [from, to) aparezca una vez.
func dense(buckets []repository.Bucket, from, to time.Time, start func(time.Time) time.Time, stepDays int) []dto.BucketDTO {
	counts := make(map[time.Time]int, len(buckets))
	for _, b := range buckets {
		counts[start(b.Start)] += b.Count
	}
	out := []dto.BucketDTO{}
	for t := start(from); t.Before(to); t = t.AddDate(0, 0, stepDays) {
		out = append(out, dto.BucketDTO{Start: t, Count: counts[t]})
	}
	return out
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatsFilter ventana y alcance de las estadísticas.
// ActorID no vacío restringe las series derivadas del historial a ese actor.
type StatsFilter struct {
	From    time.Time
	To      time.Time
	ActorID string
}

// Bucket conteo de una ventana temporal (día o semana ISO, en UTC).
type Bucket struct {
	Start time.Time
	Count int
}

// UserCounts conteos de usuarios por rol y por estado de activación.
type UserCounts struct {
	ByRole   map[entity.Role]int
	Active   int
	Inactive int
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
// Todo resultado es una proyección determinista de equipos, solicitudes, usuarios e historial.
type AnalyticsRepository interface {
	EquipmentByStatus(ctx context.Context) (map[entity.EquipmentStatus]int, error)
	RequestsByStatus(ctx context.Context) (map[entity.RequestStatus]int, error)
	UserCounts(ctx context.Context) (*UserCounts, error)

	// ── Series derivadas del historial ───────────────────────────────────────

	// LoginsPerDay cuenta logins exitosos por día UTC dentro de [From, To).
	LoginsPerDay(ctx context.Context, filter StatsFilter) ([]Bucket, error)
	// ResolutionsPerWeek cuenta transiciones aceptadas a resolved por semana ISO (lunes) dentro de [From, To).
	ResolutionsPerWeek(ctx context.Context, filter StatsFilter) ([]Bucket, error)
	// AvgResolutionHours promedio de horas entre la creación de la solicitud y su resolución,
	// para resoluciones dentro de [From, To). Cero si no hay resoluciones.
	AvgResolutionHours(ctx context.Context, filter StatsFilter) (decimal.Decimal, error)
}

// DayStart inicio del día UTC que contiene t (ventana de LoginsPerDay).
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart lunes 00:00 UTC de la semana ISO que contiene t (ventana de ResolutionsPerWeek).
func WeekStart(t time.Time) time.Time {
	d := DayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // lunes = 0
	return d.AddDate(0, 0, -offset)
}

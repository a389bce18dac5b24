package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	db querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db querier) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// EquipmentByStatus cuenta equipos por estado. Los estados sin equipos no aparecen.
func (r *AnalyticsRepo) EquipmentByStatus(ctx context.Context) (map[entity.EquipmentStatus]int, error) {
	counts, err := r.countBy(ctx, `SELECT status, COUNT(*) FROM equipment GROUP BY status`, "analytics.EquipmentByStatus")
	if err != nil {
		return nil, err
	}
	out := make(map[entity.EquipmentStatus]int, len(counts))
	for k, v := range counts {
		out[entity.EquipmentStatus(k)] = v
	}
	return out, nil
}

// RequestsByStatus cuenta solicitudes por estado.
func (r *AnalyticsRepo) RequestsByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	counts, err := r.countBy(ctx, `SELECT status, COUNT(*) FROM service_requests GROUP BY status`, "analytics.RequestsByStatus")
	if err != nil {
		return nil, err
	}
	out := make(map[entity.RequestStatus]int, len(counts))
	for k, v := range counts {
		out[entity.RequestStatus(k)] = v
	}
	return out, nil
}

// UserCounts usuarios por rol y por activación en una sola pasada.
func (r *AnalyticsRepo) UserCounts(ctx context.Context) (*repository.UserCounts, error) {
	rows, err := r.db.Query(ctx, `SELECT role, is_active, COUNT(*) FROM users GROUP BY role, is_active`)
	if err != nil {
		return nil, mapError("analytics.UserCounts", err)
	}
	defer rows.Close()
	out := &repository.UserCounts{ByRole: map[entity.Role]int{}}
	for rows.Next() {
		var role string
		var active bool
		var n int
		if err := rows.Scan(&role, &active, &n); err != nil {
			return nil, mapError("analytics.UserCounts scan", err)
		}
		out.ByRole[entity.Role(role)] += n
		if active {
			out.Active += n
		} else {
			out.Inactive += n
		}
	}
	return out, mapError("analytics.UserCounts", rows.Err())
}

// LoginsPerDay agrupa logins exitosos por día UTC.
func (r *AnalyticsRepo) LoginsPerDay(ctx context.Context, filter repository.StatsFilter) ([]repository.Bucket, error) {
	const query = `
	SELECT date_trunc('day', occurred_at AT TIME ZONE 'UTC') AS day, COUNT(*)
	FROM audit_entries
	WHERE entity_kind = 'login' AND event = 'login_success'
	  AND occurred_at >= $1 AND occurred_at < $2
	  AND ($3 = '' OR actor_id = $3)
	GROUP BY day
	ORDER BY day`
	return r.buckets(ctx, "analytics.LoginsPerDay", query, filter)
}

// ResolutionsPerWeek agrupa por semana ISO (date_trunc('week') empieza en lunes).
func (r *AnalyticsRepo) ResolutionsPerWeek(ctx context.Context, filter repository.StatsFilter) ([]repository.Bucket, error) {
	const query = `
	SELECT date_trunc('week', occurred_at AT TIME ZONE 'UTC') AS week, COUNT(*)
	FROM audit_entries
	WHERE entity_kind = 'request' AND accepted AND new_status = 'resolved'
	  AND occurred_at >= $1 AND occurred_at < $2
	  AND ($3 = '' OR actor_id = $3)
	GROUP BY week
	ORDER BY week`
	return r.buckets(ctx, "analytics.ResolutionsPerWeek", query, filter)
}

// AvgResolutionHours promedio en horas entre creación y resolución, redondeado a 2 decimales.
func (r *AnalyticsRepo) AvgResolutionHours(ctx context.Context, filter repository.StatsFilter) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(ROUND(AVG(EXTRACT(EPOCH FROM (a.occurred_at - s.created_at)) / 3600)::numeric, 2), 0)
	FROM audit_entries a
	JOIN service_requests s ON s.id = a.entity_id
	WHERE a.entity_kind = 'request' AND a.accepted AND a.new_status = 'resolved'
	  AND a.occurred_at >= $1 AND a.occurred_at < $2
	  AND ($3 = '' OR a.actor_id = $3)`
	var avg decimal.Decimal
	if err := r.db.QueryRow(ctx, query, filter.From, filter.To, filter.ActorID).Scan(&avg); err != nil {
		return decimal.Zero, mapError("analytics.AvgResolutionHours", err)
	}
	return avg, nil
}

func (r *AnalyticsRepo) countBy(ctx context.Context, query, op string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, mapError(op, err)
		}
		out[key] = n
	}
	return out, mapError(op, rows.Err())
}

func (r *AnalyticsRepo) buckets(ctx context.Context, op, query string, filter repository.StatsFilter) ([]repository.Bucket, error) {
	rows, err := r.db.Query(ctx, query, filter.From, filter.To, filter.ActorID)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	out := []repository.Bucket{}
	for rows.Next() {
		var start time.Time
		var n int
		if err := rows.Scan(&start, &n); err != nil {
			return nil, mapError(op, err)
		}
		// date_trunc sobre timestamp sin zona: el valor ya está en UTC.
		out = append(out, repository.Bucket{Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC), Count: n})
	}
	return out, mapError(op, rows.Err())
}

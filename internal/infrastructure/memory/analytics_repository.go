package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// AnalyticsRepository implementa repository.AnalyticsRepository recorriendo el estado.
type AnalyticsRepository struct{ base }

func (r *AnalyticsRepository) EquipmentByStatus(ctx context.Context) (map[entity.EquipmentStatus]int, error) {
	out := map[entity.EquipmentStatus]int{}
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.equipment {
			out[e.Status]++
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) RequestsByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	out := map[entity.RequestStatus]int{}
	err := r.read(ctx, func(st *memoryState) error {
		for _, req := range st.requests {
			out[req.Status]++
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) UserCounts(ctx context.Context) (*repository.UserCounts, error) {
	out := &repository.UserCounts{ByRole: map[entity.Role]int{}}
	err := r.read(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			out.ByRole[u.Role]++
			if u.IsActive {
				out.Active++
			} else {
				out.Inactive++
			}
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) LoginsPerDay(ctx context.Context, filter repository.StatsFilter) ([]repository.Bucket, error) {
	counts := map[time.Time]int{}
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.audit {
			if e.EntityKind != entity.KindLogin || e.Event != entity.LoginSuccess || !inWindow(e, filter) {
				continue
			}
			counts[repository.DayStart(e.OccurredAt)]++
		}
		return nil
	})
	return buckets(counts), err
}

func (r *AnalyticsRepository) ResolutionsPerWeek(ctx context.Context, filter repository.StatsFilter) ([]repository.Bucket, error) {
	counts := map[time.Time]int{}
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.audit {
			if !isResolution(e) || !inWindow(e, filter) {
				continue
			}
			counts[repository.WeekStart(e.OccurredAt)]++
		}
		return nil
	})
	return buckets(counts), err
}

func (r *AnalyticsRepository) AvgResolutionHours(ctx context.Context, filter repository.StatsFilter) (decimal.Decimal, error) {
	var total time.Duration
	n := 0
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.audit {
			if !isResolution(e) || !inWindow(e, filter) {
				continue
			}
			req, ok := st.requests[e.EntityID]
			if !ok {
				continue
			}
			total += e.OccurredAt.Sub(req.CreatedAt)
			n++
		}
		return nil
	})
	if err != nil || n == 0 {
		return decimal.Zero, err
	}
	hours := decimal.NewFromFloat(total.Hours()).Div(decimal.NewFromInt(int64(n)))
	return hours.Round(2), nil
}

func isResolution(e entity.AuditEntry) bool {
	return e.EntityKind == entity.KindRequest && e.Accepted && e.NewStatus == string(entity.RequestResolved)
}

func inWindow(e entity.AuditEntry, f repository.StatsFilter) bool {
	if e.OccurredAt.Before(f.From) || !e.OccurredAt.Before(f.To) {
		return false
	}
	return f.ActorID == "" || e.ActorID == f.ActorID
}

func buckets(counts map[time.Time]int) []repository.Bucket {
	out := make([]repository.Bucket, 0, len(counts))
	for start, n := range counts {
		out = append(out, repository.Bucket{Start: start, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// AuditRepository implementa repository.AuditRepository. Solo agrega; nunca edita ni borra.
type AuditRepository struct{ base }

// Append asigna Seq y ajusta OccurredAt para que no retroceda respecto de la última
// entrada de la misma entidad.
func (r *AuditRepository) Append(ctx context.Context, entry *entity.AuditEntry) error {
	return r.write(ctx, func(st *memoryState) error {
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		entry.OccurredAt = micro(entry.OccurredAt)
		if entry.EntityKind != entity.KindLogin {
			for i := len(st.audit) - 1; i >= 0; i-- {
				prev := st.audit[i]
				if prev.EntityKind == entry.EntityKind && prev.EntityID == entry.EntityID {
					if prev.OccurredAt.After(entry.OccurredAt) {
						entry.OccurredAt = prev.OccurredAt
					}
					break
				}
			}
		}
		st.seq++
		entry.Seq = st.seq
		st.audit = append(st.audit, *entry)
		return nil
	})
}

func (r *AuditRepository) History(ctx context.Context, kind entity.EntityKind, entityID, actorID string) ([]*entity.AuditEntry, error) {
	out := []*entity.AuditEntry{}
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.audit {
			e := e
			if e.EntityKind != kind || e.EntityID != entityID {
				continue
			}
			if actorID != "" && e.ActorID != actorID {
				continue
			}
			out = append(out, &e)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, err
}

// ListLogins más reciente primero; From inclusivo, To exclusivo.
func (r *AuditRepository) ListLogins(ctx context.Context, filter repository.LoginFilter, limit, offset int) ([]*entity.AuditEntry, int, error) {
	var matches []entity.AuditEntry
	err := r.read(ctx, func(st *memoryState) error {
		for _, e := range st.audit {
			if e.EntityKind != entity.KindLogin {
				continue
			}
			if filter.ActorID != "" && e.ActorID != filter.ActorID {
				continue
			}
			if filter.Event != "" && e.Event != filter.Event {
				continue
			}
			if filter.From != nil && e.OccurredAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !e.OccurredAt.Before(*filter.To) {
				continue
			}
			matches = append(matches, e)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].OccurredAt.Equal(matches[j].OccurredAt) {
			return matches[i].OccurredAt.After(matches[j].OccurredAt)
		}
		return matches[i].Seq > matches[j].Seq
	})
	out := []*entity.AuditEntry{}
	for _, e := range page(matches, limit, offset) {
		e := e
		out = append(out, &e)
	}
	return out, len(matches), nil
}

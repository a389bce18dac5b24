package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `id, seq, entity_kind, entity_id, actor_id, prior_status, new_status, accepted,
	note, event, email, source, occurred_at`

// AuditRepo historial append-only. La tabla tiene un trigger que rechaza UPDATE y DELETE.
type AuditRepo struct {
	db querier
}

// NewAuditRepository construye el adaptador. db puede ser el pool o una pgx.Tx.
func NewAuditRepository(db querier) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append inserta la entrada. occurred_at nunca queda por detrás de la última entrada
// de la misma entidad (los logins no se ajustan); seq lo asigna la secuencia.
func (r *AuditRepo) Append(ctx context.Context, entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO audit_entries (id, entity_kind, entity_id, actor_id, prior_status, new_status, accepted,
		                           note, event, email, source, occurred_at)
		VALUES ($1, $2::text, $3::text, $4, $5, $6, $7, $8, $9, $10, $11,
		        CASE WHEN $2::text = 'login' THEN $12::timestamptz
		             ELSE GREATEST($12::timestamptz, COALESCE(
		                 (SELECT MAX(occurred_at) FROM audit_entries
		                   WHERE entity_kind = $2::text AND entity_id = $3::text), $12::timestamptz))
		        END)
		RETURNING seq, occurred_at`
	err := r.db.QueryRow(ctx, query,
		entry.ID, string(entry.EntityKind), entry.EntityID, entry.ActorID, entry.PriorStatus, entry.NewStatus,
		entry.Accepted, entry.Note, entry.Event, entry.Email, entry.Source, entry.OccurredAt,
	).Scan(&entry.Seq, &entry.OccurredAt)
	if err != nil {
		return mapError("append audit entry", err)
	}
	entry.OccurredAt = entry.OccurredAt.UTC()
	return nil
}

// History más antigua primero.
func (r *AuditRepo) History(ctx context.Context, kind entity.EntityKind, entityID, actorID string) ([]*entity.AuditEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+auditColumns+` FROM audit_entries
		WHERE entity_kind = $1 AND entity_id = $2 AND ($3 = '' OR actor_id = $3)
		ORDER BY occurred_at, seq`,
		string(kind), entityID, actorID)
	if err != nil {
		return nil, mapError("audit history", err)
	}
	return collectEntries(rows)
}

// ListLogins más reciente primero; From inclusivo, To exclusivo.
func (r *AuditRepo) ListLogins(ctx context.Context, filter repository.LoginFilter, limit, offset int) ([]*entity.AuditEntry, int, error) {
	const where = `
		WHERE entity_kind = 'login'
		  AND ($1 = '' OR actor_id = $1)
		  AND ($2 = '' OR event = $2)
		  AND ($3::timestamptz IS NULL OR occurred_at >= $3)
		  AND ($4::timestamptz IS NULL OR occurred_at < $4)`
	args := []any{filter.ActorID, filter.Event, filter.From, filter.To}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count logins", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+auditColumns+` FROM audit_entries`+where+` ORDER BY occurred_at DESC, seq DESC LIMIT $5 OFFSET $6`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapError("list logins", err)
	}
	list, err := collectEntries(rows)
	return list, total, err
}

func collectEntries(rows pgx.Rows) ([]*entity.AuditEntry, error) {
	defer rows.Close()
	out := []*entity.AuditEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapError("scan audit entry", err)
		}
		out = append(out, e)
	}
	return out, mapError("read audit entries", rows.Err())
}

func scanEntry(row pgx.Row) (*entity.AuditEntry, error) {
	var e entity.AuditEntry
	var kind string
	var at time.Time
	err := row.Scan(&e.ID, &e.Seq, &kind, &e.EntityID, &e.ActorID, &e.PriorStatus, &e.NewStatus, &e.Accepted,
		&e.Note, &e.Event, &e.Email, &e.Source, &at)
	if err != nil {
		return nil, err
	}
	e.EntityKind = entity.EntityKind(kind)
	e.OccurredAt = at.UTC()
	return &e, nil
}

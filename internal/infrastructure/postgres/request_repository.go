package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

var _ repository.ServiceRequestRepository = (*ServiceRequestRepo)(nil)

const requestColumns = `id, requester_id, COALESCE(equipment_id, ''), description, status, updated_by, created_at, updated_at`

// ServiceRequestRepo implementación del puerto ServiceRequestRepository sobre PostgreSQL.
type ServiceRequestRepo struct {
	db querier
}

// NewServiceRequestRepository construye el adaptador. db puede ser el pool o una pgx.Tx.
func NewServiceRequestRepository(db querier) *ServiceRequestRepo {
	return &ServiceRequestRepo{db: db}
}

// Create persiste la solicitud. Solicitante o equipo inexistentes violan las FK
// y se reportan como ErrInvalidReference.
func (r *ServiceRequestRepo) Create(ctx context.Context, req *entity.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (id, requester_id, equipment_id, description, status, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.RequesterID, nullIfEmpty(req.EquipmentID), req.Description, string(req.Status),
		req.UpdatedBy, req.CreatedAt, req.UpdatedAt,
	)
	return mapError("insert service request", err)
}

// GetByID (nil, nil) si no existe.
func (r *ServiceRequestRepo) GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE id = $1`, id)
}

// Lock SELECT ... FOR UPDATE.
func (r *ServiceRequestRepo) Lock(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM service_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *ServiceRequestRepo) findOne(ctx context.Context, query, id string) (*entity.ServiceRequest, error) {
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get service request", err)
	}
	return req, nil
}

// Update persiste la descripción; el estado cambia solo vía UpdateStatus.
func (r *ServiceRequestRepo) Update(ctx context.Context, req *entity.ServiceRequest) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE service_requests SET description = $2, updated_by = $3, updated_at = $4
		WHERE id = $1`,
		req.ID, req.Description, req.UpdatedBy, req.UpdatedAt)
	if err != nil {
		return mapError("update service request", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, req.ID)
	}
	return nil
}

// UpdateStatus actualización condicional sobre el estado esperado.
func (r *ServiceRequestRepo) UpdateStatus(ctx context.Context, id string, expected, next entity.RequestStatus, actorID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE service_requests SET status = $3, updated_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2`,
		id, string(expected), string(next), actorID, at)
	if err != nil {
		return mapError("update service request status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: la solicitud está en %s, no en %s", domain.ErrConflict, current.Status, expected)
}

// List ordena por (created_at desc, id).
func (r *ServiceRequestRepo) List(ctx context.Context, filter repository.ServiceRequestFilter, limit, offset int) ([]*entity.ServiceRequest, int, error) {
	const where = `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR requester_id = $2)
		  AND ($3 = '' OR equipment_id = $3)`
	args := []any{string(filter.Status), filter.RequesterID, filter.EquipmentID}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM service_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count service requests", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM service_requests`+where+` ORDER BY created_at DESC, id LIMIT $4 OFFSET $5`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapError("list service requests", err)
	}
	defer rows.Close()
	list := []*entity.ServiceRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, mapError("scan service request", err)
		}
		list = append(list, req)
	}
	return list, total, mapError("list service requests", rows.Err())
}

func scanRequest(row pgx.Row) (*entity.ServiceRequest, error) {
	var req entity.ServiceRequest
	var status string
	if err := row.Scan(&req.ID, &req.RequesterID, &req.EquipmentID, &req.Description, &status, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.Status = entity.RequestStatus(status)
	req.CreatedAt, req.UpdatedAt = req.CreatedAt.UTC(), req.UpdatedAt.UTC()
	return &req, nil
}

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

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

const equipmentColumns = `id, type, model, serial, department, status, updated_by, created_at, updated_at`

// EquipmentRepo implementación del puerto EquipmentRepository sobre PostgreSQL.
type EquipmentRepo struct {
	db querier
}

// NewEquipmentRepository construye el adaptador. db puede ser el pool o una pgx.Tx.
func NewEquipmentRepository(db querier) *EquipmentRepo {
	return &EquipmentRepo{db: db}
}

// Create persiste un equipo. El serial es único (equipment_serial_key → ErrConflict).
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	query := `
		INSERT INTO equipment (` + equipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.Type, e.Model, e.Serial, e.Department, string(e.Status), e.UpdatedBy, e.CreatedAt, e.UpdatedAt,
	)
	return mapError("insert equipment", err)
}

// GetByID (nil, nil) si no existe.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	return r.findOne(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id)
}

// Lock SELECT ... FOR UPDATE; solo bloquea dentro de una transacción.
func (r *EquipmentRepo) Lock(ctx context.Context, id string) (*entity.Equipment, error) {
	return r.findOne(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1 FOR UPDATE`, id)
}

func (r *EquipmentRepo) findOne(ctx context.Context, query, id string) (*entity.Equipment, error) {
	e, err := scanEquipment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get equipment", err)
	}
	return e, nil
}

// Update solo toca los campos descriptivos; status queda fuera a propósito.
func (r *EquipmentRepo) Update(ctx context.Context, e *entity.Equipment) error {
	query := `
		UPDATE equipment SET type = $2, model = $3, serial = $4, department = $5, updated_by = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, e.ID, e.Type, e.Model, e.Serial, e.Department, e.UpdatedBy, e.UpdatedAt)
	if err != nil {
		return mapError("update equipment", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, e.ID)
	}
	return nil
}

// UpdateStatus actualización condicional sobre el estado esperado.
func (r *EquipmentRepo) UpdateStatus(ctx context.Context, id string, expected, next entity.EquipmentStatus, actorID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE equipment SET status = $3, updated_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2`,
		id, string(expected), string(next), actorID, at)
	if err != nil {
		return mapError("update equipment status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
	}
	return fmt.Errorf("%w: el equipo está en %s, no en %s", domain.ErrConflict, current.Status, expected)
}

// List ordena por (created_at desc, id) para que la paginación sea estable.
func (r *EquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter, limit, offset int) ([]*entity.Equipment, int, error) {
	const where = `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR department = $2)
		  AND ($3 = '' OR type = $3)`
	args := []any{string(filter.Status), filter.Department, filter.Type}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM equipment`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count equipment", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+equipmentColumns+` FROM equipment`+where+` ORDER BY created_at DESC, id LIMIT $4 OFFSET $5`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapError("list equipment", err)
	}
	defer rows.Close()
	list := []*entity.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, mapError("scan equipment", err)
		}
		list = append(list, e)
	}
	return list, total, mapError("list equipment", rows.Err())
}

func scanEquipment(row pgx.Row) (*entity.Equipment, error) {
	var e entity.Equipment
	var status string
	if err := row.Scan(&e.ID, &e.Type, &e.Model, &e.Serial, &e.Department, &status, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = entity.EquipmentStatus(status)
	e.CreatedAt, e.UpdatedAt = e.CreatedAt.UTC(), e.UpdatedAt.UTC()
	return &e, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, worker_id, email, password_hash, role, is_active, full_name,
	department, position, gender, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario. El email es único (users_email_key).
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.WorkerID, user.Email, user.PasswordHash, string(user.Role), user.IsActive, user.FullName,
		user.Department, user.Position, user.Gender, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return mapError("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID. (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email normalizado. (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get user", err)
	}
	return u, nil
}

// Update actualiza un usuario (perfil, rol, activación y password).
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, role = $4, is_active = $5, full_name = $6,
		       department = $7, position = $8, gender = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, string(user.Role), user.IsActive, user.FullName,
		user.Department, user.Position, user.Gender, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return mapError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, user.ID)
	}
	return nil
}

// List pagina los usuarios ordenados por (created_at, id).
func (r *UserRepo) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	const where = `
		WHERE ($1 = '' OR role = $1)
		  AND ($2::boolean IS NULL OR is_active = $2)
		  AND ($3 = '' OR department = $3)`
	args := []any{string(filter.Role), filter.Active, filter.Department}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapError("count users", err)
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY created_at, id LIMIT $4 OFFSET $5`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, mapError("list users", err)
	}
	defer rows.Close()
	list := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, mapError("scan user", err)
		}
		list = append(list, u)
	}
	return list, total, mapError("list users", rows.Err())
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(
		&u.ID, &u.WorkerID, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.FullName,
		&u.Department, &u.Position, &u.Gender, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	return &u, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// UserRepository implementa repository.UserRepository.
type UserRepository struct{ base }

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.write(ctx, func(st *memoryState) error {
		if _, ok := st.users[user.ID]; ok {
			return fmt.Errorf("%w: usuario %s ya existe", domain.ErrConflict, user.ID)
		}
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		cp := *user
		cp.CreatedAt, cp.UpdatedAt = micro(cp.CreatedAt), micro(cp.UpdatedAt)
		st.users[user.ID] = cp
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.read(ctx, func(st *memoryState) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.read(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			u := u
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.write(ctx, func(st *memoryState) error {
		prev, ok := st.users[user.ID]
		if !ok {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, user.ID)
		}
		cp := *user
		cp.Email = prev.Email
		cp.CreatedAt = prev.CreatedAt
		cp.UpdatedAt = micro(cp.UpdatedAt)
		st.users[user.ID] = cp
		return nil
	})
}

// List ordena por (CreatedAt, ID) para que la paginación sea estable.
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	var out []*entity.User
	total := 0
	err := r.read(ctx, func(st *memoryState) error {
		matches := make([]entity.User, 0, len(st.users))
		for _, u := range st.users {
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			if filter.Active != nil && u.IsActive != *filter.Active {
				continue
			}
			if filter.Department != "" && u.Department != filter.Department {
				continue
			}
			matches = append(matches, u)
		}
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].CreatedAt.Before(matches[j].CreatedAt)
			}
			return matches[i].ID < matches[j].ID
		})
		total = len(matches)
		for _, u := range page(matches, limit, offset) {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	return out, total, err
}

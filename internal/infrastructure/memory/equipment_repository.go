package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
	"github.com/jhoicas/activos-ti-api/internal/domain/repository"
)

// EquipmentRepository implementa repository.EquipmentRepository.
type EquipmentRepository struct{ base }

func (r *EquipmentRepository) Create(ctx context.Context, e *entity.Equipment) error {
	return r.write(ctx, func(st *memoryState) error {
		if _, ok := st.equipment[e.ID]; ok {
			return fmt.Errorf("%w: equipo %s ya existe", domain.ErrConflict, e.ID)
		}
		if err := serialTaken(st, e.Serial, e.ID); err != nil {
			return err
		}
		cp := *e
		cp.CreatedAt, cp.UpdatedAt = micro(cp.CreatedAt), micro(cp.UpdatedAt)
		st.equipment[e.ID] = cp
		return nil
	})
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	var out *entity.Equipment
	err := r.read(ctx, func(st *memoryState) error {
		if e, ok := st.equipment[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

// Lock dentro de Run el store entero ya está bloqueado; equivale a GetByID.
func (r *EquipmentRepository) Lock(ctx context.Context, id string) (*entity.Equipment, error) {
	return r.GetByID(ctx, id)
}

func (r *EquipmentRepository) Update(ctx context.Context, e *entity.Equipment) error {
	return r.write(ctx, func(st *memoryState) error {
		prev, ok := st.equipment[e.ID]
		if !ok {
			return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, e.ID)
		}
		if err := serialTaken(st, e.Serial, e.ID); err != nil {
			return err
		}
		cp := *e
		cp.Status = prev.Status
		cp.CreatedAt = prev.CreatedAt
		cp.UpdatedAt = micro(cp.UpdatedAt)
		st.equipment[e.ID] = cp
		return nil
	})
}

func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id string, expected, next entity.EquipmentStatus, actorID string, at time.Time) error {
	return r.write(ctx, func(st *memoryState) error {
		e, ok := st.equipment[id]
		if !ok {
			return fmt.Errorf("%w: equipo %s", domain.ErrNotFound, id)
		}
		if e.Status != expected {
			return fmt.Errorf("%w: el equipo está en %s, no en %s", domain.ErrConflict, e.Status, expected)
		}
		e.Status = next
		e.UpdatedBy = actorID
		e.UpdatedAt = micro(at)
		st.equipment[id] = e
		return nil
	})
}

// List ordena por (CreatedAt desc, ID) para que la paginación sea estable.
func (r *EquipmentRepository) List(ctx context.Context, filter repository.EquipmentFilter, limit, offset int) ([]*entity.Equipment, int, error) {
	var out []*entity.Equipment
	total := 0
	err := r.read(ctx, func(st *memoryState) error {
		matches := make([]entity.Equipment, 0, len(st.equipment))
		for _, e := range st.equipment {
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if filter.Department != "" && e.Department != filter.Department {
				continue
			}
			if filter.Type != "" && e.Type != filter.Type {
				continue
			}
			matches = append(matches, e)
		}
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].CreatedAt.After(matches[j].CreatedAt)
			}
			return matches[i].ID < matches[j].ID
		})
		total = len(matches)
		for _, e := range page(matches, limit, offset) {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	return out, total, err
}

func serialTaken(st *memoryState, serial, exceptID string) error {
	for id, e := range st.equipment {
		if id != exceptID && e.Serial == serial {
			return fmt.Errorf("%w: el serial %s ya está registrado", domain.ErrConflict, serial)
		}
	}
	return nil
}

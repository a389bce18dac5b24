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

// ServiceRequestRepository implementa repository.ServiceRequestRepository.
type ServiceRequestRepository struct{ base }

// Create exige que el solicitante y el equipo referenciado existan, igual que las FK de PostgreSQL.
func (r *ServiceRequestRepository) Create(ctx context.Context, req *entity.ServiceRequest) error {
	return r.write(ctx, func(st *memoryState) error {
		if _, ok := st.requests[req.ID]; ok {
			return fmt.Errorf("%w: solicitud %s ya existe", domain.ErrConflict, req.ID)
		}
		if _, ok := st.users[req.RequesterID]; !ok {
			return fmt.Errorf("%w: solicitante %s", domain.ErrInvalidReference, req.RequesterID)
		}
		if req.EquipmentID != "" {
			if _, ok := st.equipment[req.EquipmentID]; !ok {
				return fmt.Errorf("%w: equipo %s", domain.ErrInvalidReference, req.EquipmentID)
			}
		}
		cp := *req
		cp.CreatedAt, cp.UpdatedAt = micro(cp.CreatedAt), micro(cp.UpdatedAt)
		st.requests[req.ID] = cp
		return nil
	})
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	var out *entity.ServiceRequest
	err := r.read(ctx, func(st *memoryState) error {
		if req, ok := st.requests[id]; ok {
			out = &req
		}
		return nil
	})
	return out, err
}

// Lock dentro de Run el store entero ya está bloqueado; equivale a GetByID.
func (r *ServiceRequestRepository) Lock(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *ServiceRequestRepository) Update(ctx context.Context, req *entity.ServiceRequest) error {
	return r.write(ctx, func(st *memoryState) error {
		prev, ok := st.requests[req.ID]
		if !ok {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, req.ID)
		}
		prev.Description = req.Description
		prev.UpdatedBy = req.UpdatedBy
		prev.UpdatedAt = micro(req.UpdatedAt)
		st.requests[req.ID] = prev
		return nil
	})
}

func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id string, expected, next entity.RequestStatus, actorID string, at time.Time) error {
	return r.write(ctx, func(st *memoryState) error {
		req, ok := st.requests[id]
		if !ok {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, id)
		}
		if req.Status != expected {
			return fmt.Errorf("%w: la solicitud está en %s, no en %s", domain.ErrConflict, req.Status, expected)
		}
		req.Status = next
		req.UpdatedBy = actorID
		req.UpdatedAt = micro(at)
		st.requests[id] = req
		return nil
	})
}

// List ordena por (CreatedAt desc, ID) para que la paginación sea estable.
func (r *ServiceRequestRepository) List(ctx context.Context, filter repository.ServiceRequestFilter, limit, offset int) ([]*entity.ServiceRequest, int, error) {
	var out []*entity.ServiceRequest
	total := 0
	err := r.read(ctx, func(st *memoryState) error {
		matches := make([]entity.ServiceRequest, 0, len(st.requests))
		for _, req := range st.requests {
			if filter.Status != "" && req.Status != filter.Status {
				continue
			}
			if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
				continue
			}
			if filter.EquipmentID != "" && req.EquipmentID != filter.EquipmentID {
				continue
			}
			matches = append(matches, req)
		}
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].CreatedAt.After(matches[j].CreatedAt)
			}
			return matches[i].ID < matches[j].ID
		})
		total = len(matches)
		for _, req := range page(matches, limit, offset) {
			req := req
			out = append(out, &req)
		}
		return nil
	})
	return out, total, err
}

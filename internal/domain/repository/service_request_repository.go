package repository

import (
	"context"
	"time"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// ServiceRequestFilter criterios de listado de solicitudes.
type ServiceRequestFilter struct {
	Status      entity.RequestStatus
	RequesterID string
	EquipmentID string
}

// ServiceRequestRepository define el puerto de persistencia para ServiceRequest (DIP).
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *entity.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error)
	// Lock lee la solicitud bloqueándola hasta el fin de la transacción en curso.
	Lock(ctx context.Context, id string) (*entity.ServiceRequest, error)
	Update(ctx context.Context, req *entity.ServiceRequest) error
	// UpdateStatus misma semántica condicional que EquipmentRepository.UpdateStatus.
	UpdateStatus(ctx context.Context, id string, expected, next entity.RequestStatus, actorID string, at time.Time) error
	List(ctx context.Context, filter ServiceRequestFilter, limit, offset int) ([]*entity.ServiceRequest, int, error)
}

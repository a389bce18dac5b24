package dto

import "time"

// CreateServiceRequest entrada para levantar una solicitud (nace pending).
type CreateServiceRequest struct {
	EquipmentID string `json:"equipment_id" validate:"omitempty"`
	Description string `json:"description" validate:"required,min=3,max=2000"`
}

// UpdateServiceRequest cambios administrativos de una solicitud no terminal.
type UpdateServiceRequest struct {
	Description *string `json:"description" validate:"omitnil,min=3,max=2000"`
}

// ServiceRequestListQuery filtros del listado de solicitudes.
type ServiceRequestListQuery struct {
	Status      string `query:"status" validate:"omitempty,oneof=pending in_process resolved closed"`
	RequesterID string `query:"requester_id"`
	EquipmentID string `query:"equipment_id"`
}

// ServiceRequestResponse salida de una solicitud.
type ServiceRequestResponse struct {
	ID                 string    `json:"id"`
	RequesterID        string    `json:"requester_id"`
	EquipmentID        string    `json:"equipment_id,omitempty"`
	Description        string    `json:"description"`
	Status             string    `json:"status"`
	UpdatedBy          string    `json:"updated_by"`
	AllowedTransitions []string  `json:"allowed_transitions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

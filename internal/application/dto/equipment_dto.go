package dto

import "time"

// CreateEquipmentRequest entrada para registrar un equipo (nace operational).
type CreateEquipmentRequest struct {
	Type       string `json:"type" validate:"required,max=100"`
	Model      string `json:"model" validate:"required,max=200"`
	Serial     string `json:"serial" validate:"required,max=100"`
	Department string `json:"department" validate:"required"`
}

// UpdateEquipmentRequest cambios descriptivos; el estado solo cambia con una transición.
type UpdateEquipmentRequest struct {
	Type       *string `json:"type" validate:"omitnil,min=1,max=100"`
	Model      *string `json:"model" validate:"omitnil,min=1,max=200"`
	Serial     *string `json:"serial" validate:"omitnil,min=1,max=100"`
	Department *string `json:"department" validate:"omitnil,min=1"`
}

// EquipmentListQuery filtros del listado de equipos.
type EquipmentListQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=operational under_review damaged withdrawn"`
	Department string `query:"department"`
	Type       string `query:"type"`
}

// EquipmentResponse salida de un equipo, con las transiciones que el actor puede ejecutar.
type EquipmentResponse struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Model              string    `json:"model"`
	Serial             string    `json:"serial"`
	Department         string    `json:"department"`
	Status             string    `json:"status"`
	UpdatedBy          string    `json:"updated_by"`
	AllowedTransitions []string  `json:"allowed_transitions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

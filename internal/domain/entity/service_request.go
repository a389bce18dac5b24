package entity

import "time"

// RequestStatus estado del ciclo de vida de una solicitud.
type RequestStatus string

// Estados de ServiceRequest. resolved y closed son terminales.
const (
	RequestPending   RequestStatus = "pending"
	RequestInProcess RequestStatus = "in_process"
	RequestResolved  RequestStatus = "resolved"
	RequestClosed    RequestStatus = "closed"
)

// RequestStatuses en el orden en que se presentan en el dashboard.
var RequestStatuses = []RequestStatus{
	RequestPending, RequestInProcess, RequestResolved, RequestClosed,
}

// Valid indica si el estado es uno de los definidos.
func (s RequestStatus) Valid() bool {
	for _, v := range RequestStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ServiceRequest solicitud de servicio o de equipo levantada por un usuario institucional.
// EquipmentID vacío = solicitud general.
type ServiceRequest struct {
	ID          string
	RequesterID string
	EquipmentID string
	Description string
	Status      RequestStatus
	UpdatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

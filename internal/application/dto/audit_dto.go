package dto

import "time"

// TransitionRequest pide mover una entidad a Status.
// ExpectedStatus es el estado que el cliente observó; si no coincide con el almacenado
// la operación falla con CONFLICT. Vacío = usar el estado leído por el servidor.
type TransitionRequest struct {
	Status         string `json:"status" validate:"required"`
	ExpectedStatus string `json:"expected_status"`
	Note           string `json:"note" validate:"max=500"`
}

// AuditEntryResponse salida de una entrada del historial.
type AuditEntryResponse struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	EntityKind  string    `json:"entity_kind"`
	EntityID    string    `json:"entity_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	PriorStatus string    `json:"prior_status,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Accepted    bool      `json:"accepted"`
	Note        string    `json:"note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// HistoryResponse historial de una entidad, más antiguo primero.
type HistoryResponse struct {
	EntityKind string               `json:"entity_kind"`
	EntityID   string               `json:"entity_id"`
	Entries    []AuditEntryResponse `json:"entries"`
}

// LoginEventResponse salida de un evento de autenticación.
type LoginEventResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Email      string    `json:"email"`
	Event      string    `json:"event"`
	Success    bool      `json:"success"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LoginListQuery filtros del historial de autenticación.
type LoginListQuery struct {
	ActorID string `query:"actor_id"`
	Event   string `query:"event" validate:"omitempty,oneof=login_success login_failure logout"`
	From    string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To      string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ConsistencyResponse resultado de comparar el estado almacenado con la última entrada del historial.
type ConsistencyResponse struct {
	EntityKind    string `json:"entity_kind"`
	EntityID      string `json:"entity_id"`
	CurrentStatus string `json:"current_status"`
	LedgerStatus  string `json:"ledger_status"`
	Entries       int    `json:"entries"`
	Consistent    bool   `json:"consistent"`
}

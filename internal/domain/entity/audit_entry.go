package entity

import "time"

// EntityKind tipo de entidad registrada en el historial.
type EntityKind string

// Tipos de entidad del historial.
const (
	KindEquipment EntityKind = "equipment"
	KindRequest   EntityKind = "request"
	KindLogin     EntityKind = "login"
)

// Valid indica si el tipo es uno de los definidos.
func (k EntityKind) Valid() bool {
	return k == KindEquipment || k == KindRequest || k == KindLogin
}

// Eventos de autenticación.
const (
	LoginSuccess = "login_success"
	LoginFailure = "login_failure"
	Logout       = "logout"
)

// AuditEntry registro inmutable de un cambio de estado o de un evento de autenticación.
// Seq lo asigna el almacenamiento y desempata entradas con el mismo OccurredAt.
//
// Accepted = false marca un intento denegado: PriorStatus == NewStatus == estado vigente.
type AuditEntry struct {
	ID          string
	Seq         int64
	EntityKind  EntityKind
	EntityID    string // vacío para login
	ActorID     string // vacío si el login falló con un email desconocido
	PriorStatus string
	NewStatus   string
	Accepted    bool
	Note        string
	Event       string // solo login: login_success | login_failure | logout
	Email       string // solo login
	Source      string // IP u origen del cliente
	OccurredAt  time.Time
}

// LoginEvent vista especializada de las entradas de autenticación.
type LoginEvent struct {
	ID         string
	ActorID    string
	Email      string
	Event      string
	Success    bool
	Source     string
	OccurredAt time.Time
}

// AsLoginEvent proyecta una entrada de tipo login.
func (e *AuditEntry) AsLoginEvent() LoginEvent {
	return LoginEvent{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Email:      e.Email,
		Event:      e.Event,
		Success:    e.Event != LoginFailure,
		Source:     e.Source,
		OccurredAt: e.OccurredAt,
	}
}

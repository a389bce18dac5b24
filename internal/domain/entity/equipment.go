package entity

import "time"

// EquipmentStatus estado del ciclo de vida de un equipo.
type EquipmentStatus string

// Estados de Equipment. withdrawn es terminal.
const (
	EquipmentOperational EquipmentStatus = "operational"
	EquipmentUnderReview EquipmentStatus = "under_review"
	EquipmentDamaged     EquipmentStatus = "damaged"
	EquipmentWithdrawn   EquipmentStatus = "withdrawn"
)

// EquipmentStatuses en el orden en que se presentan en el dashboard.
var EquipmentStatuses = []EquipmentStatus{
	EquipmentOperational, EquipmentUnderReview, EquipmentDamaged, EquipmentWithdrawn,
}

// Valid indica si el estado es uno de los definidos.
func (s EquipmentStatus) Valid() bool {
	for _, v := range EquipmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Equipment representa un activo físico o de cómputo. No se elimina, se retira (withdrawn).
type Equipment struct {
	ID         string
	Type       string
	Model      string
	Serial     string
	Department string
	Status     EquipmentStatus
	UpdatedBy  string // último actor que modificó el registro
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

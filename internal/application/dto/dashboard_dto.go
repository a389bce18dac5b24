package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsQuery ventana de las estadísticas (fechas YYYY-MM-DD, To exclusiva).
// Por defecto: los últimos 28 días hasta mañana.
type StatisticsQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// DashboardData respuesta de GET /api/audit/statistics.
// Los mapas de estado siempre contienen todas las claves canónicas.
type DashboardData struct {
	EquipmentByStatus map[string]int `json:"equipment_by_status"`
	RequestsByStatus  map[string]int `json:"requests_by_status"`

	// Solo para roles con lectura de usuarios.
	UsersByRole   map[string]int `json:"users_by_role,omitempty"`
	ActiveUsers   *int           `json:"active_users,omitempty"`
	InactiveUsers *int           `json:"inactive_users,omitempty"`

	LoginsPerDay       []BucketDTO     `json:"logins_per_day"`
	ResolutionsPerWeek []BucketDTO     `json:"resolutions_per_week"`
	AvgResolutionHours decimal.Decimal `json:"avg_resolution_hours"`

	// Metadatos del período
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Scoped bool      `json:"scoped"` // true si las series se limitan a las acciones del actor
}

// BucketDTO conteo de una ventana temporal.
type BucketDTO struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

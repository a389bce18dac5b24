package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/activos-ti-api/internal/application/analytics"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
)

// DashboardHandler estadísticas agregadas del panel.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Statistics devuelve conteos por estado, series de logins y resoluciones,
// y el promedio de horas de resolución.
// GET /api/audit/statistics
//
// Para technician y manager las series se limitan a sus propias acciones (scoped=true).
//
// @Summary      Estadísticas del panel
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta, exclusiva (YYYY-MM-DD)"
// @Success      200   {object}  dto.DashboardData
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/audit/statistics [get]
func (h *DashboardHandler) Statistics(c *fiber.Ctx) error {
	var q dto.StatisticsQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Statistics(c.UserContext(), GetActor(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

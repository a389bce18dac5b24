package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/audit"
	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/report"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// AuditHandler lectura del historial: por entidad, autenticaciones, verificación y PDF.
type AuditHandler struct {
	ledger *audit.LedgerUseCase
	report *report.HistoryReportUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(ledger *audit.LedgerUseCase, report *report.HistoryReportUseCase) *AuditHandler {
	return &AuditHandler{ledger: ledger, report: report}
}

// EquipmentHistory godoc
// @Summary      Historial de un equipo
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200   {object}  dto.HistoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/history [get]
func (h *AuditHandler) EquipmentHistory(c *fiber.Ctx) error {
	return h.history(c, entity.KindEquipment)
}

// RequestHistory godoc
// @Summary      Historial de una solicitud
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200   {object}  dto.HistoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/history [get]
func (h *AuditHandler) RequestHistory(c *fiber.Ctx) error {
	return h.history(c, entity.KindRequest)
}

func (h *AuditHandler) history(c *fiber.Ctx, kind entity.EntityKind) error {
	out, err := h.ledger.History(c.UserContext(), GetActor(c), kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EquipmentHistoryPDF godoc
// @Summary      Historial de un equipo en PDF
// @Tags         audit
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del equipo"
// @Success      200   {file}  binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/history.pdf [get]
func (h *AuditHandler) EquipmentHistoryPDF(c *fiber.Ctx) error {
	return h.historyPDF(c, entity.KindEquipment)
}

// RequestHistoryPDF godoc
// @Summary      Historial de una solicitud en PDF
// @Tags         audit
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200   {file}  binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/history.pdf [get]
func (h *AuditHandler) RequestHistoryPDF(c *fiber.Ctx) error {
	return h.historyPDF(c, entity.KindRequest)
}

func (h *AuditHandler) historyPDF(c *fiber.Ctx, kind entity.EntityKind) error {
	doc, filename, err := h.report.Download(c.UserContext(), GetActor(c), kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(doc)
}

// Logins godoc
// @Summary      Historial de autenticación
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        actor_id   query  string  false  "usuario"
// @Param        event      query  string  false  "login_success | login_failure | logout"
// @Param        from       query  string  false  "desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "hasta, exclusiva (YYYY-MM-DD)"
// @Param        page       query  int     false  "página (1..)"
// @Param        page_size  query  int     false  "tamaño (1..1000)"
// @Success      200   {object}  dto.ListResponse[dto.LoginEventResponse]
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/audit/logins [get]
func (h *AuditHandler) Logins(c *fiber.Ctx) error {
	var q dto.LoginListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.ledger.Logins(c.UserContext(), GetActor(c), q, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Comparar el estado almacenado con la última entrada aceptada del historial
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        kind  path  string  true  "equipment | request"
// @Param        id    path  string  true  "ID de la entidad"
// @Success      200   {object}  dto.ConsistencyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/audit/verify/{kind}/{id} [get]
func (h *AuditHandler) Verify(c *fiber.Ctx) error {
	kind, err := audit.ParseKind(c.Params("kind"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.ledger.Verify(c.UserContext(), GetActor(c), kind, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
)

// RequestHandler solicitudes de servicio.
type RequestHandler struct {
	uc *lifecycle.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *lifecycle.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Levantar una solicitud de servicio
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "descripción y equipo opcional"
// @Success      201   {object}  dto.ServiceRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes visibles para el actor
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        status        query  string  false  "pending | in_process | resolved | closed"
// @Param        requester_id  query  string  false  "solicitante"
// @Param        equipment_id  query  string  false  "equipo"
// @Param        page          query  int     false  "página (1..)"
// @Param        page_size     query  int     false  "tamaño (1..1000)"
// @Success      200   {object}  dto.ListResponse[dto.ServiceRequestResponse]
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var q dto.ServiceRequestListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	page, err := pageFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200   {object}  dto.ServiceRequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir la descripción de una solicitud abierta
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.UpdateServiceRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ServiceRequestResponse
// @Router       /api/requests/{id} [patch]
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar el estado de la solicitud
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la solicitud"
// @Param        body  body  dto.TransitionRequest  true  "estado destino"
// @Success      200   {object}  dto.ServiceRequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/transition [post]
func (h *RequestHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Transition(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

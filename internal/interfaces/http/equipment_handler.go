package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/lifecycle"
)

// EquipmentHandler inventario de equipos y su ciclo de vida.
type EquipmentHandler struct {
	uc *lifecycle.EquipmentUseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *lifecycle.EquipmentUseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar equipo
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "tipo, modelo, serial, departamento"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEquipmentRequest
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
// @Summary      Listar equipos visibles para el actor
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Param        status      query  string  false  "operational | under_review | damaged | withdrawn"
// @Param        department  query  string  false  "código de departamento"
// @Param        type        query  string  false  "tipo de equipo"
// @Param        page        query  int     false  "página (1..)"
// @Param        page_size   query  int     false  "tamaño (1..1000)"
// @Success      200   {object}  dto.ListResponse[dto.EquipmentResponse]
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	var q dto.EquipmentListQuery
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
// @Summary      Obtener equipo
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [get]
func (h *EquipmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos descriptivos del equipo
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del equipo"
// @Param        body  body  dto.UpdateEquipmentRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id} [patch]
func (h *EquipmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEquipmentRequest
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
// @Summary      Cambiar el estado del equipo
// @Description  Cada intento (aceptado o denegado) queda en el historial.
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del equipo"
// @Param        body  body  dto.TransitionRequest  true  "estado destino"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/transition [post]
func (h *EquipmentHandler) Transition(c *fiber.Ctx) error {
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

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/usecase"
)

// CatalogHandler catálogos de referencia (departamentos, cargos, géneros).
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Get godoc
// @Summary      Catálogos para formularios
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Success      200   {object}  dto.CatalogResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

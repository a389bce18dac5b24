package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
)

// bindBody decodifica el cuerpo JSON. Un cuerpo ilegible es un error de validación.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return validation.Field("body", "json")
	}
	return nil
}

// bindQuery decodifica los parámetros de consulta (etiquetas `query`).
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros de consulta: %v", domain.ErrValidation, err)
	}
	return nil
}

// pageFrom lee page y page_size con los valores por defecto; los límites los valida el caso de uso.
func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Page: dto.DefaultPage, PageSize: dto.DefaultPageSize}
	if err := bindQuery(c, &page); err != nil {
		return page, err
	}
	return page, nil
}

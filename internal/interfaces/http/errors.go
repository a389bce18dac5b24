package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/dto"
	"github.com/jhoicas/activos-ti-api/internal/application/validation"
	"github.com/jhoicas/activos-ti-api/internal/domain"
)

// LocalError guarda el error original de la petición para el log de acceso.
const LocalError = "error"

// statusByCode única tabla de traducción de la taxonomía de errores a HTTP.
var statusByCode = map[string]int{
	domain.CodeNotFound:           fiber.StatusNotFound,
	domain.CodeForbidden:          fiber.StatusForbidden,
	domain.CodeUnauthenticated:    fiber.StatusUnauthorized,
	domain.CodeInvalidTransition:  fiber.StatusUnprocessableEntity,
	domain.CodeInvalidReference:   fiber.StatusUnprocessableEntity,
	domain.CodeConflict:           fiber.StatusConflict,
	domain.CodeEmailExists:        fiber.StatusConflict,
	domain.CodeValidation:         fiber.StatusBadRequest,
	domain.CodeStorageUnavailable: fiber.StatusServiceUnavailable,
	domain.CodeInvalidCredentials: fiber.StatusUnauthorized,
	domain.CodeInactiveUser:       fiber.StatusForbidden,
	domain.CodeInternal:           fiber.StatusInternalServerError,
}

// StatusFor devuelve el status HTTP de un error del dominio.
func StatusFor(err error) int {
	if s, ok := statusByCode[domain.Code(err)]; ok {
		return s
	}
	return fiber.StatusInternalServerError
}

// respondError escribe dto.ErrorResponse. Los 5xx no exponen el detalle del error:
// queda en c.Locals para el log de acceso.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status := StatusFor(err)
	c.Locals(LocalError, err)

	body := dto.ErrorResponse{Code: code, Message: err.Error()}
	var verr *validation.Error
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	switch code {
	case domain.CodeInternal:
		body.Message = "error interno"
	case domain.CodeStorageUnavailable:
		body.Message = domain.ErrStorageUnavailable.Error()
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler para fiber.Config: errores que no pasan por un handler
// (ruta inexistente, método no permitido, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.CodeNotFound
		case fiber.StatusTooManyRequests:
			code = "RATE_LIMITED"
		}
		c.Locals(LocalError, err)
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno corresponde a un tipo estable de la taxonomía; los puntos de llamada
// los envuelven con fmt.Errorf("%w: ...") para añadir detalle legible.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrUnauthenticated    = errors.New("sesión ausente o expirada")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInvalidReference   = errors.New("referencia inválida")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrValidation         = errors.New("entrada inválida")
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")

	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInactiveUser       = errors.New("usuario inactivo")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
)

// Códigos de error estables expuestos a los clientes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeConflict           = "CONFLICT"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeValidation         = "VALIDATION"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInactiveUser       = "INACTIVE_USER"
	CodeInternal           = "INTERNAL"
)

// El orden importa: ErrEmailAlreadyExists se evalúa antes que ErrConflict
// por si alguna capa lo envuelve junto con este último.
var codes = []struct {
	err  error
	code string
}{
	{ErrEmailAlreadyExists, CodeEmailExists},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrInactiveUser, CodeInactiveUser},
	{ErrStorageUnavailable, CodeStorageUnavailable},
	{ErrNotFound, CodeNotFound},
	{ErrForbidden, CodeForbidden},
	{ErrUnauthenticated, CodeUnauthenticated},
	{ErrInvalidTransition, CodeInvalidTransition},
	{ErrInvalidReference, CodeInvalidReference},
	{ErrConflict, CodeConflict},
	{ErrValidation, CodeValidation},
}

// Code devuelve el código estable de un error (envuelto o no).
// Cualquier error fuera de la taxonomía se reporta como INTERNAL.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

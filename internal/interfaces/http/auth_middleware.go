package http

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/internal/application/auth"
	"github.com/jhoicas/activos-ti-api/internal/domain"
	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// Locals keys para la sesión y el actor en Fiber.
const (
	LocalActor   = "actor"
	LocalSession = "session"
)

// sessionResolver lo implementa *auth.AuthUseCase.
type sessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, *entity.User, error)
}

// AuthMiddleware valida el Bearer Token, comprueba que no esté revocado y carga al actor
// desde el almacenamiento en c.Locals. El rol del token no se usa para autorizar.
func AuthMiddleware(resolver sessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondError(c, fmt.Errorf("%w: Authorization header requerido", domain.ErrUnauthenticated))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondError(c, fmt.Errorf("%w: formato: Bearer <token>", domain.ErrUnauthenticated))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondError(c, fmt.Errorf("%w: token vacío", domain.ErrUnauthenticated))
		}
		session, actor, err := resolver.Resolve(c.UserContext(), tokenString)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalSession, session)
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// RequireRole deja pasar solo a actores activos con alguno de los roles indicados.
// Es un filtro grueso de ruta: la política fina la aplican los casos de uso.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return respondError(c, domain.ErrUnauthenticated)
		}
		if !actor.IsActive {
			return respondError(c, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden))
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return respondError(c, fmt.Errorf("%w: rol %s sin acceso", domain.ErrForbidden, actor.Role))
	}
}

// GetActor devuelve el usuario autenticado (después de AuthMiddleware).
func GetActor(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalActor).(*entity.User)
	return u
}

// GetSession devuelve la sesión del token (después de AuthMiddleware).
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

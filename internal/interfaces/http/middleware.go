package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-ti-api/pkg/logger"
)

// RequestLogger una línea por petición: método, ruta, status, latencia, request id y actor.
// Los 5xx se registran en error con el detalle que respondError ocultó al cliente.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Aún no escrito: dejar que el ErrorHandler fije el status antes de registrar.
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if err, ok := c.Locals(LocalError).(error); ok && err != nil {
			ev = ev.Err(err)
		}
		if actor := GetActor(c); actor != nil {
			ev = ev.Str("actor_id", actor.ID).Str("role", string(actor.Role))
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("ip", c.IP()).
			Msg("request")
		return nil
	}
}

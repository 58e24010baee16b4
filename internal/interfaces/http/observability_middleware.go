package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// httpRecorder lo implementa *metrics.Metrics.
type httpRecorder interface {
	InFlight(delta float64)
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// RequestObserver registra latencia y status de cada petición en métricas y log.
// La etiqueta route es el patrón de Fiber (/api/orders/:id), no la ruta concreta.
func RequestObserver(rec httpRecorder, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if rec != nil {
			rec.InFlight(1)
			defer rec.InFlight(-1)
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		elapsed := time.Since(start)
		if rec != nil {
			rec.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		if log != nil {
			ev := log.Debug()
			if status >= fiber.StatusInternalServerError {
				ev = log.Error().Err(err)
			}
			ev.Str("method", c.Method()).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", elapsed).
				Str("ip", c.IP()).
				Msg("http request")
		}
		return err
	}
}

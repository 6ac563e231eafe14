package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// httpObserver lo implementa *metrics.Metrics.
type httpObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// MetricsMiddleware registra cada petición por ruta registrada (no por path crudo,
// para no disparar la cardinalidad con IDs).
func MetricsMiddleware(obs httpObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}
		obs.ObserveHTTP(c.Method(), route, status, time.Since(start))
		return err
	}
}

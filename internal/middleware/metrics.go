package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
)

// Metrics counts requests by method and status and observes latency.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		metrics.HTTPRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

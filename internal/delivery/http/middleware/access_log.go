package middleware

import (
	"time"

	"skill-match/internal/pkg/logging"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger *logging.Logger
}

func NewAccessLogMiddleware(logger *logging.Logger) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logger}
}

// requestID reads the id stamped on the response, so downstream middleware
// and handlers log under the same correlation key.
func requestID(c fiber.Ctx) string {
	return string(c.Response().Header.Peek("X-Request-ID"))
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		m.logger.Info("http access",
			"rid", rid,
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
			"resp_bytes", c.Response().Header.ContentLength(),
		)

		return err
	}
}

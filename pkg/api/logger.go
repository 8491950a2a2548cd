package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger logs one line per request, at Warn for client errors and Error for server errors
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()

		var event *zerolog.Event
		switch {
		case code >= fiber.StatusInternalServerError:
			event = log.Error()
		case code >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Debug()
		}

		event.
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(startTime)).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Msg(msg)

		return err
	}
}

package logger

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewAccessLogger builds the zap logger used for per-request access lines.
func NewAccessLogger(production bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if production {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("init access logger: %w", err)
	}
	return l, nil
}

// AccessLog logs one line per request once the handler chain has completed.
// requestIDKey is the Locals key populated by the requestid middleware.
func AccessLog(l *zap.Logger, requestIDKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			if fe, ok := chainErr.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("URI", c.OriginalURL()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if rid, ok := c.Locals(requestIDKey).(string); ok && rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}

		if status >= fiber.StatusInternalServerError {
			l.Error("request", fields...)
		} else {
			l.Info("request", fields...)
		}
		return chainErr
	}
}

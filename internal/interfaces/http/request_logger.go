package http

import (
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger un evento por request: método, ruta, status, latencia y el usuario autenticado.
// 5xx sale como error, 4xx como warn y el resto como info.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return fiberzerolog.New(fiberzerolog.Config{
		GetLogger: func(c *fiber.Ctx) zerolog.Logger {
			return log.With().Str("user", GetEmail(c)).Logger()
		},
		Fields: []string{
			fiberzerolog.FieldMethod,
			fiberzerolog.FieldPath,
			fiberzerolog.FieldStatus,
			fiberzerolog.FieldLatency,
			fiberzerolog.FieldError,
		},
		Messages: []string{"request", "request", "request"},
		Levels:   []zerolog.Level{zerolog.ErrorLevel, zerolog.WarnLevel, zerolog.InfoLevel},
	})
}

package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// queryInt lee un entero opcional; ausente devuelve nil.
func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Invalid(key, "El filtro "+key+" debe ser un número entero.")
	}
	return &n, nil
}

// queryDecimal lee un monto opcional.
func queryDecimal(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Invalid(key, "El filtro "+key+" debe ser un monto.")
	}
	return &d, nil
}

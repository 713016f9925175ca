package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// ActivityHandler historial de actividades (admin).
type ActivityHandler struct {
	uc *audit.HistoryUseCase
}

// NewActivityHandler construye el handler.
func NewActivityHandler(uc *audit.HistoryUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List GET /api/activity?module=&kind=&text=
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	var f dto.ActivityFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	list, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/staff"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// StaffHandler carga horaria del personal (admin).
type StaffHandler struct {
	uc *staff.StaffUseCase
}

// NewStaffHandler construye el handler.
func NewStaffHandler(uc *staff.StaffUseCase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

func staffPeriod(c *fiber.Ctx) (string, error) {
	var req dto.StaffRequest
	if err := c.QueryParser(&req); err != nil {
		return "", domain.Invalid("period", "parámetros de consulta inválidos")
	}
	if err := validator.Struct(req); err != nil {
		return "", err
	}
	return req.Period, nil
}

// Report godoc
// @Summary      Panel de carga horaria
// @Tags         staff
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "dia, semana, mes o anio"
// @Success      200  {object}  dto.StaffReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/staff [get]
func (h *StaffHandler) Report(c *fiber.Ctx) error {
	period, err := staffPeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Report(c.UserContext(), Identity(c), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/staff/export?period=mes
func (h *StaffHandler) Export(c *fiber.Ctx) error {
	period, err := staffPeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	b, name, err := h.uc.Export(c.UserContext(), Identity(c), period)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, name, b)
}

// SetHours PUT /api/staff/:id/hours
func (h *StaffHandler) SetHours(c *fiber.Ctx) error {
	var in dto.SetHoursRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Struct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetHours(c.UserContext(), Identity(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

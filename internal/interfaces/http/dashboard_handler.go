package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// DashboardHandler resumen del dashboard y reportes por período.
type DashboardHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ventas, compras, unidades en stock y balance.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetReport godoc
// @Summary      Reporte de ventas y compras por período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "semanal | mensual | semestral | anual (default mensual)"
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if err := validator.Struct(req); err != nil {
		return respondError(c, err)
	}
	rep, err := h.uc.GetReport(c.UserContext(), req.Period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// ExportReport descarga el reporte en PDF.
// GET /api/reports/export?period=mensual
func (h *DashboardHandler) ExportReport(c *fiber.Ctx) error {
	var req dto.ReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if err := validator.Struct(req); err != nil {
		return respondError(c, err)
	}
	b, name, err := h.uc.ExportReport(c.UserContext(), Identity(c), req.Period)
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, name, b)
}

func sendPDF(c *fiber.Ctx, filename string, b []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(b)
}

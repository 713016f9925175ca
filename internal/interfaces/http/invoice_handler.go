package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir factura y descontar stock
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueInvoiceRequest  true  "client, date, concept, quantity, amount, detail"
// @Success      201   {object}  dto.IssueInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.IssueInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.IssueInvoice(c.UserContext(), Identity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List facturas más recientes primero.
// GET /api/invoices?search=&from=&to=&min_amount=&max_amount=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var f dto.InvoiceFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	var err error
	if f.MinAmount, err = queryDecimal(c, "min_amount"); err != nil {
		return respondError(c, err)
	}
	if f.MaxAmount, err = queryDecimal(c, "max_amount"); err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.ListInvoices(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID obtiene una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// PDF descarga el comprobante.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	b, name, err := h.uc.InvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, name, b)
}

// Delete elimina la factura (admin).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteInvoice(c.UserContext(), Identity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatusResponse{Message: "Factura eliminada."})
}

package http

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/suppliers"
	"github.com/jhoicas/backoffice-api/internal/domain"
)

// MaxAttachmentSize tamaño máximo del comprobante adjunto.
const MaxAttachmentSize = 10 << 20

// SupplierHandler facturas de proveedores.
type SupplierHandler struct {
	uc *suppliers.SupplierBillUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *suppliers.SupplierBillUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Register godoc
// @Summary      Cargar factura de proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        supplier  formData  string  true   "Proveedor"
// @Param        cuit      formData  string  true   "CUIT"
// @Param        concept   formData  string  true   "Concepto"
// @Param        amount    formData  string  true   "Monto"
// @Param        file      formData  file    false  "Comprobante"
// @Success      201  {object}  dto.SupplierBillResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/suppliers/bills [post]
func (h *SupplierHandler) Register(c *fiber.Ctx) error {
	in := dto.RegisterSupplierBillRequest{
		Supplier: c.FormValue("supplier"),
		CUIT:     c.FormValue("cuit"),
		Concept:  c.FormValue("concept"),
	}
	if raw := strings.TrimSpace(c.FormValue("amount")); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return respondError(c, domain.Invalid("amount", "El monto debe ser un número."))
		}
		in.Amount = amount
	}

	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > MaxAttachmentSize {
			return respondError(c, domain.Invalid("file", "El archivo supera el tamaño permitido."))
		}
		f, err := fh.Open()
		if err != nil {
			return badBody(c)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return badBody(c)
		}
		in.FileName = fh.Filename
		in.File = data
	}

	out, err := h.uc.Register(c.UserContext(), Identity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/suppliers/bills?search=
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	var f dto.SupplierBillFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	list, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Delete DELETE /api/suppliers/bills/:id (admin)
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), Identity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatusResponse{Message: "Factura de proveedor eliminada."})
}

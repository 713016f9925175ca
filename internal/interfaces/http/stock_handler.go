package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// StockHandler gestión de stock y ajustes manuales (admin).
type StockHandler struct {
	stock       *inventory.StockUseCase
	adjustments *inventory.AdjustmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, adjustments *inventory.AdjustmentUseCase) *StockHandler {
	return &StockHandler{stock: stock, adjustments: adjustments}
}

// Create godoc
// @Summary      Agregar producto al stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "name, quantity, unit, production_date, expiry_date"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Struct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.Create(c.UserContext(), Identity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/stock?search=&min_quantity=&max_quantity=
func (h *StockHandler) List(c *fiber.Ctx) error {
	f := dto.StockFilter{Search: c.Query("search")}
	var err error
	if f.MinQuantity, err = queryInt(c, "min_quantity"); err != nil {
		return respondError(c, err)
	}
	if f.MaxQuantity, err = queryInt(c, "max_quantity"); err != nil {
		return respondError(c, err)
	}
	list, err := h.stock.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// SetQuantity PUT /api/stock/:id/quantity
func (h *StockHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validator.Struct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.SetQuantity(c.UserContext(), Identity(c), c.Params("id"), *in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/stock/:id
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.stock.Delete(c.UserContext(), Identity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StatusResponse{Message: "Producto eliminado."})
}

// SaveDraft guarda la cantidad y el motivo tipeados antes de aplicar el ajuste.
// PUT /api/stock/:id/adjustment-draft
func (h *StockHandler) SaveDraft(c *fiber.Ctx) error {
	var d dto.AdjustmentDraft
	if err := c.BodyParser(&d); err != nil {
		return badBody(c)
	}
	h.adjustments.Drafts().Save(Identity(c), c.Params("id"), d)
	return c.JSON(d)
}

// GetDraft GET /api/stock/:id/adjustment-draft
func (h *StockHandler) GetDraft(c *fiber.Ctx) error {
	d, _ := h.adjustments.Drafts().Get(Identity(c), c.Params("id"))
	return c.JSON(d)
}

// ApplyAdjustment godoc
// @Summary      Descontar unidades por merma o rotura
// @Description  Sin cantidad en el cuerpo usa el borrador guardado. Cantidad vacía, no numérica o <= 0 no aplica nada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyAdjustmentRequest  false  "quantity, reason"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjustments [post]
func (h *StockHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.ApplyAdjustmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	who := Identity(c)
	id := c.Params("id")
	if strings.TrimSpace(string(in.Quantity)) == "" {
		if d, ok := h.adjustments.Drafts().Get(who, id); ok {
			in.Quantity = d.Quantity
			if in.Reason == "" {
				in.Reason = d.Reason
			}
		}
	}
	if err := validator.Struct(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.adjustments.ApplyAdjustment(c.UserContext(), who, id, string(in.Quantity), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

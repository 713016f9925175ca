package dto

import (
	"bytes"
	"encoding/json"
	"time"
)

// CreateStockItemRequest body para POST /api/stock.
type CreateStockItemRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Quantity       *int   `json:"quantity" validate:"required"`
	Unit           string `json:"unit" validate:"omitempty,max=50"`
	ProductionDate string `json:"production_date" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate     string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

// SetQuantityRequest body para PUT /api/stock/:id/quantity.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// QuantityInput cantidad tal como la tipeó el usuario. Acepta número o texto JSON;
// cualquier otro literal queda como texto y el caso de uso lo trata como no numérico.
type QuantityInput string

func (q *QuantityInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*q = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = QuantityInput(s)
	default:
		*q = QuantityInput(b)
	}
	return nil
}

// AdjustmentDraft entrada pendiente de un ajuste manual (por usuario y por ítem).
type AdjustmentDraft struct {
	Quantity QuantityInput `json:"quantity"`
	Reason   string `json:"reason"`
}

// ApplyAdjustmentRequest body para POST /api/stock/:id/adjustments.
// Quantity acepta 3 o "3": un valor vacío o no numérico se ignora sin error.
type ApplyAdjustmentRequest struct {
	Quantity QuantityInput `json:"quantity"`
	Reason   string        `json:"reason" validate:"max=500"`
}

// AdjustmentResponse resultado de un ajuste manual.
type AdjustmentResponse struct {
	Applied  bool   `json:"applied"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Message  string `json:"message,omitempty"`
}

// StockFilter filtros del listado de stock.
type StockFilter struct {
	Search      string `query:"search"`
	MinQuantity *int   `query:"-"` // min_quantity, lo parsea el handler
	MaxQuantity *int   `query:"-"`
}

// StockItemResponse salida de un ítem de stock.
type StockItemResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Unit           string     `json:"unit"`
	ProductionDate *time.Time `json:"production_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	ExpiresSoon    bool       `json:"expires_soon"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

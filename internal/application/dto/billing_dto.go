package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IssueInvoiceRequest body para POST /api/invoices.
// La validación de obligatorios la hace el caso de uso para devolver el mensaje de negocio.
type IssueInvoiceRequest struct {
	Client   string          `json:"client"`
	Date     string          `json:"date"` // YYYY-MM-DD
	Concept  string          `json:"concept"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Detail   string          `json:"detail"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	Client      string          `json:"client"`
	Date        string          `json:"date"`
	StockItemID string          `json:"stock_item_id"`
	Concept     string          `json:"concept"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Detail      string          `json:"detail"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IssueInvoiceResponse factura creada y mensaje de estado.
type IssueInvoiceResponse struct {
	Invoice        InvoiceResponse `json:"invoice"`
	RemainingStock int             `json:"remaining_stock"`
	Message        string          `json:"message"`
}

// InvoiceFilter filtros del listado de facturas (se aplican en memoria).
type InvoiceFilter struct {
	Search    string           `query:"search"` // cliente o concepto
	From      string           `query:"from"`   // YYYY-MM-DD
	To        string           `query:"to"`
	MinAmount *decimal.Decimal `query:"-"` // min_amount, lo parsea el handler
	MaxAmount *decimal.Decimal `query:"-"`
}

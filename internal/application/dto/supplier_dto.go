package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterSupplierBillRequest campos del formulario multipart de POST /api/suppliers/bills.
type RegisterSupplierBillRequest struct {
	Supplier string
	CUIT     string
	Concept  string
	Amount   decimal.Decimal
	// Attachment opcional.
	FileName string
	File     []byte
}

// SupplierBillResponse salida de una factura de proveedor.
type SupplierBillResponse struct {
	ID             string          `json:"id"`
	Supplier       string          `json:"supplier"`
	CUIT           string          `json:"cuit"`
	Concept        string          `json:"concept"`
	Amount         decimal.Decimal `json:"amount"`
	AttachmentURL  string          `json:"attachment_url,omitempty"`
	AttachmentName string          `json:"attachment_name"`
	UploadedAt     time.Time       `json:"uploaded_at"`
}

// SupplierBillFilter búsqueda por proveedor, CUIT o concepto.
type SupplierBillFilter struct {
	Search string `query:"search"`
}

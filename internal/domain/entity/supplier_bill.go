package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierBill factura de proveedor cargada con su comprobante opcional.
type SupplierBill struct {
	ID             string
	Supplier       string
	CUIT           string
	Concept        string
	Amount         decimal.Decimal
	AttachmentKey  string // nombre único en el almacén de archivos; vacío si no hay archivo
	AttachmentURL  string
	AttachmentName string // nombre original o "Sin archivo"
	UploadedAt     time.Time
}

// NoAttachmentName nombre mostrado cuando la factura no trae archivo.
const NoAttachmentName = "Sin archivo"

package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// SupplierBillRepository puerto de persistencia para facturas de proveedores.
type SupplierBillRepository interface {
	Create(ctx context.Context, bill *entity.SupplierBill) error
	GetByID(ctx context.Context, id string) (*entity.SupplierBill, error)
	// FindBySupplierAndCUIT retorna (nil, nil) si no hay coincidencia exacta.
	FindBySupplierAndCUIT(ctx context.Context, supplier, cuit string) (*entity.SupplierBill, error)
	List(ctx context.Context, limit int) ([]*entity.SupplierBill, error)
	Delete(ctx context.Context, id string) error
}

// AttachmentStore almacén de archivos adjuntos (comprobantes).
type AttachmentStore interface {
	// Put guarda el contenido bajo key y retorna la URL pública.
	Put(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

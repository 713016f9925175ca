package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas de venta.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List retorna hasta limit facturas, más recientes primero.
	List(ctx context.Context, limit int) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
}

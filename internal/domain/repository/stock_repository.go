package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// StockRepository define el puerto de persistencia de los ítems de inventario.
// Usado también dentro de transacciones (ver TxRunner) para garantizar consistencia.
type StockRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// FindByNameKey busca por entity.NameKey; retorna (nil, nil) si no existe.
	FindByNameKey(ctx context.Context, key string) (*entity.StockItem, error)
	// List retorna todos los ítems ordenados por nombre (desempate por id).
	List(ctx context.Context) ([]*entity.StockItem, error)
	// SetQuantity fija la cantidad; ErrNotFound si el ítem no existe.
	SetQuantity(ctx context.Context, id string, quantity int) error
	// DecrementIfAvailable descuenta qty solo si hay al menos qty unidades, en una sola operación.
	// Retorna la cantidad restante o un *domain.InsufficientStockError.
	DecrementIfAvailable(ctx context.Context, id string, qty int) (int, error)
	Delete(ctx context.Context, id string) error
}

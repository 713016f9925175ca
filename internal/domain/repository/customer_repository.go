package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de la agenda de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// List hasta limit clientes ordenados por nombre.
	List(ctx context.Context, limit int) ([]*entity.Customer, error)
	Delete(ctx context.Context, id string) error
}

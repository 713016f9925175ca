package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail retorna (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List todos los usuarios ordenados por nombre.
	List(ctx context.Context) ([]*entity.User, error)
	// SetHours reemplaza la carga horaria; ErrNotFound si el usuario no existe.
	SetHours(ctx context.Context, id string, hours entity.WorkHours) error
}

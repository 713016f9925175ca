package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ActivityRepository puerto del historial de actividades (solo inserción y lectura).
type ActivityRepository interface {
	Create(ctx context.Context, entry *entity.ActivityEntry) error
	// List retorna hasta limit registros, más recientes primero.
	List(ctx context.Context, limit int) ([]*entity.ActivityEntry, error)
}

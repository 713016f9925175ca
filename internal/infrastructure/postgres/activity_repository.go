package postgres

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo historial de actividades (append-only).
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador del historial.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create inserta la entrada. Un ID ya existente (reintento del outbox) no es error.
func (r *ActivityRepo) Create(ctx context.Context, e *entity.ActivityEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_log (id, kind, module, description, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Kind, e.Module, e.Description, e.Actor, e.CreatedAt,
	)
	return wrap("insert activity", err)
}

// List retorna las entradas más recientes primero.
func (r *ActivityRepo) List(ctx context.Context, limit int) ([]*entity.ActivityEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, kind, module, description, actor, created_at
		FROM activity_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, wrap("list activity", err)
	}
	defer rows.Close()
	var list []*entity.ActivityEntry
	for rows.Next() {
		var e entity.ActivityEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Module, &e.Description, &e.Actor, &e.CreatedAt); err != nil {
			return nil, wrap("scan activity", err)
		}
		list = append(list, &e)
	}
	return list, wrap("list activity", rows.Err())
}

package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo historial en memoria (solo inserción).
type ActivityRepo struct {
	g guard
}

// Create agrega la entrada; un ID repetido (reintento del outbox) se ignora.
func (r *ActivityRepo) Create(_ context.Context, entry *entity.ActivityEntry) error {
	defer r.g.lock()()
	for _, e := range r.g.s.activity {
		if e.ID == entry.ID {
			return nil
		}
	}
	c := *entry
	r.g.s.activity = append(r.g.s.activity, &c)
	return nil
}

// List retorna las entradas más recientes primero.
func (r *ActivityRepo) List(_ context.Context, limit int) ([]*entity.ActivityEntry, error) {
	defer r.g.lock()()
	out := make([]*entity.ActivityEntry, 0, len(r.g.s.activity))
	for _, e := range r.g.s.activity {
		c := *e
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo agenda de clientes en memoria.
type CustomerRepo struct {
	g guard
}

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.g.lock()()
	cp := *c
	r.g.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.g.lock()()
	c, ok := r.g.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) List(_ context.Context, limit int) ([]*entity.Customer, error) {
	defer r.g.lock()()
	out := make([]*entity.Customer, 0, len(r.g.s.customers))
	for _, c := range r.g.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	defer r.g.lock()()
	if _, ok := r.g.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.g.s.customers, id)
	return nil
}

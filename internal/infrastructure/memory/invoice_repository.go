package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	g guard
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	defer r.g.lock()()
	if _, ok := r.g.s.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *inv
	r.g.s.invoices[inv.ID] = &c
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	defer r.g.lock()()
	inv, ok := r.g.s.invoices[id]
	if !ok {
		return nil, nil
	}
	c := *inv
	return &c, nil
}

func (r *InvoiceRepo) List(_ context.Context, limit int) ([]*entity.Invoice, error) {
	defer r.g.lock()()
	out := make([]*entity.Invoice, 0, len(r.g.s.invoices))
	for _, inv := range r.g.s.invoices {
		c := *inv
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	defer r.g.lock()()
	if _, ok := r.g.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.g.s.invoices, id)
	return nil
}

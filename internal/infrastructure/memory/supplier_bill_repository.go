package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.SupplierBillRepository = (*SupplierBillRepo)(nil)

// SupplierBillRepo implementación en memoria de SupplierBillRepository.
type SupplierBillRepo struct {
	g guard
}

func (r *SupplierBillRepo) Create(_ context.Context, bill *entity.SupplierBill) error {
	defer r.g.lock()()
	c := *bill
	r.g.s.bills[bill.ID] = &c
	return nil
}

func (r *SupplierBillRepo) GetByID(_ context.Context, id string) (*entity.SupplierBill, error) {
	defer r.g.lock()()
	b, ok := r.g.s.bills[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *SupplierBillRepo) FindBySupplierAndCUIT(_ context.Context, supplier, cuit string) (*entity.SupplierBill, error) {
	defer r.g.lock()()
	for _, b := range r.g.s.bills {
		if b.Supplier == supplier && b.CUIT == cuit {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

func (r *SupplierBillRepo) List(_ context.Context, limit int) ([]*entity.SupplierBill, error) {
	defer r.g.lock()()
	out := make([]*entity.SupplierBill, 0, len(r.g.s.bills))
	for _, b := range r.g.s.bills {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SupplierBillRepo) Delete(_ context.Context, id string) error {
	defer r.g.lock()()
	if _, ok := r.g.s.bills[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.g.s.bills, id)
	return nil
}

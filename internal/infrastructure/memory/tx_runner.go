package memory

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// RunBilling ejecuta fn con el store bloqueado en exclusiva. Si fn falla se restauran
// stock y facturas al estado previo, igual que un rollback.
func (s *Store) RunBilling(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stockSnap := make(map[string]*entity.StockItem, len(s.stock))
	for k, v := range s.stock {
		stockSnap[k] = v.Clone()
	}
	invSnap := make(map[string]*entity.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		c := *v
		invSnap[k] = &c
	}

	g := guard{s: s, inTx: true}
	if err := fn(ctx, &StockRepo{g: g}, &InvoiceRepo{g: g}); err != nil {
		s.stock = stockSnap
		s.invoices = invSnap
		return err
	}
	return nil
}

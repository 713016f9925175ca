package billing_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/outbox"
)

// downActivity historial que rechaza toda escritura.
type downActivity struct{}

func (downActivity) Create(context.Context, *entity.ActivityEntry) error {
	return domain.Transport("insert activity", errors.New("connection refused"))
}

func (downActivity) List(context.Context, int) ([]*entity.ActivityEntry, error) {
	return nil, domain.Transport("list activity", errors.New("connection refused"))
}

func TestIssueInvoice_HistorialCaidoNoAfectaLaFactura(t *testing.T) {
	for _, mode := range []billing.Consistency{billing.ConsistencyAtomic, billing.ConsistencySequential} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			item, err := inventory.NewLedger(store.Stock()).Create(ctx, inventory.NewItem{Name: "Yerba", Quantity: 8})
			require.NoError(t, err)

			ob, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"))
			require.NoError(t, err)
			t.Cleanup(func() { ob.Close() })

			recorder := audit.NewRecorder(downActivity{}, ob, nil, zerolog.Nop(), audit.Options{})
			uc := billing.NewInvoiceUseCase(store, store.Stock(), store.Invoices(), recorder, nil, nil,
				billing.Options{Consistency: mode}, zerolog.Nop())

			resp, err := uc.IssueInvoice(ctx, clerk, request("Yerba", 5))
			require.NoError(t, err)
			assert.Equal(t, 3, resp.RemainingStock)

			got, err := store.Stock().GetByID(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, 3, got.Quantity)
			list, err := store.Invoices().List(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			// la entrada no se pierde: queda pendiente para reintento
			pending, err := ob.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, pending)
		})
	}
}

// vanishingStock borra el ítem justo después de que la emisión lo encuentra por nombre,
// como si otra sesión lo eliminara entre la escritura de la factura y el descuento.
type vanishingStock struct {
	repository.StockRepository
}

func (v vanishingStock) FindByNameKey(ctx context.Context, key string) (*entity.StockItem, error) {
	item, err := v.StockRepository.FindByNameKey(ctx, key)
	if err == nil && item != nil {
		if derr := v.StockRepository.Delete(ctx, item.ID); derr != nil {
			return nil, derr
		}
	}
	return item, err
}

// brokenWrites acepta lecturas pero falla al fijar cantidades.
type brokenWrites struct {
	repository.StockRepository
}

func (brokenWrites) SetQuantity(context.Context, string, int) error {
	return domain.Transport("update stock", errors.New("i/o timeout"))
}

func TestIssueInvoice_SecuencialFallaAlDescontar(t *testing.T) {
	cases := []struct {
		name   string
		wrap   func(repository.StockRepository) repository.StockRepository
		target error
	}{
		{
			name:   "ítem eliminado entre pasos",
			wrap:   func(r repository.StockRepository) repository.StockRepository { return vanishingStock{r} },
			target: domain.ErrNotFound,
		},
		{
			name:   "escritura de stock rechazada",
			wrap:   func(r repository.StockRepository) repository.StockRepository { return brokenWrites{r} },
			target: domain.ErrTransport,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			_, err := inventory.NewLedger(store.Stock()).Create(ctx, inventory.NewItem{Name: "Azúcar", Quantity: 10})
			require.NoError(t, err)

			rec := &spyRecorder{}
			uc := billing.NewInvoiceUseCase(store, tc.wrap(store.Stock()), store.Invoices(), rec, nil, nil,
				billing.Options{Consistency: billing.ConsistencySequential}, zerolog.Nop())

			resp, err := uc.IssueInvoice(ctx, clerk, request("Azúcar", 4))
			require.ErrorIs(t, err, tc.target)
			assert.Nil(t, resp)

			// la factura ya escrita queda en el almacén
			list, err := store.Invoices().List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "Azúcar", list[0].Concept)
			assert.Zero(t, rec.count(), "sin alta en el historial cuando el flujo falla")
		})
	}
}

func TestIssueInvoice_AtomicoRevierteSiFallaElDescuento(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	item, err := inventory.NewLedger(store.Stock()).Create(ctx, inventory.NewItem{Name: "Azúcar", Quantity: 10})
	require.NoError(t, err)

	uc := billing.NewInvoiceUseCase(failingRunner{store}, store.Stock(), store.Invoices(), &spyRecorder{}, nil, nil,
		billing.Options{}, zerolog.Nop())

	_, err = uc.IssueInvoice(ctx, clerk, request("Azúcar", 4))
	require.ErrorIs(t, err, domain.ErrTransport)

	got, err := store.Stock().GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	list, err := store.Invoices().List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// failingRunner corre la transacción del store en memoria pero su descuento condicional falla.
type failingRunner struct{ s *memory.Store }

func (f failingRunner) RunBilling(ctx context.Context, fn func(context.Context, repository.StockRepository, repository.InvoiceRepository) error) error {
	return f.s.RunBilling(ctx, func(ctx context.Context, stock repository.StockRepository, inv repository.InvoiceRepository) error {
		return fn(ctx, failingDecrement{stock}, inv)
	})
}

type failingDecrement struct {
	repository.StockRepository
}

func (failingDecrement) DecrementIfAvailable(context.Context, string, int) (int, error) {
	return 0, domain.Transport("decrement stock", errors.New("i/o timeout"))
}

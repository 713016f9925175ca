package billing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
)

type spyRecorder struct {
	mu           sync.Mutex
	descriptions []string
	kinds        []string
}

func (s *spyRecorder) Record(_ context.Context, kind, _, description string, _ session.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kinds = append(s.kinds, kind)
	s.descriptions = append(s.descriptions, description)
}

func (s *spyRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.descriptions)
}

type env struct {
	store *memory.Store
	uc    *billing.InvoiceUseCase
	rec   *spyRecorder
}

var clerk = session.Identity{UserID: "u-1", Email: "caja@local.test", Role: entity.RoleEmpleado}

func newEnv(t *testing.T, opts billing.Options) *env {
	t.Helper()
	store := memory.NewStore()
	rec := &spyRecorder{}
	uc := billing.NewInvoiceUseCase(store, store.Stock(), store.Invoices(), rec, nil,
		pdf.NewMarotoPDFGenerator("Comercio de prueba"), opts, zerolog.Nop())
	return &env{store: store, uc: uc, rec: rec}
}

func (e *env) seed(t *testing.T, name string, qty int) *entity.StockItem {
	t.Helper()
	item, err := inventory.NewLedger(e.store.Stock()).Create(context.Background(), inventory.NewItem{Name: name, Quantity: qty})
	require.NoError(t, err)
	return item
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := e.store.Stock().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Quantity
}

func (e *env) invoices(t *testing.T) int {
	t.Helper()
	list, err := e.store.Invoices().List(context.Background(), 0)
	require.NoError(t, err)
	return len(list)
}

func request(concept string, qty int) dto.IssueInvoiceRequest {
	return dto.IssueInvoiceRequest{
		Client:   "Juan Pérez",
		Date:     "2026-03-14",
		Concept:  concept,
		Quantity: qty,
		Amount:   decimal.RequireFromString("1500.50"),
	}
}

func TestIssueInvoice_DescuentaStockYRegistra(t *testing.T) {
	for _, mode := range []billing.Consistency{billing.ConsistencyAtomic, billing.ConsistencySequential} {
		t.Run(string(mode), func(t *testing.T) {
			e := newEnv(t, billing.Options{Consistency: mode})
			item := e.seed(t, "Tornillos", 10)

			resp, err := e.uc.IssueInvoice(context.Background(), clerk, request("  tornillos ", 4))
			require.NoError(t, err)
			assert.Equal(t, 6, resp.RemainingStock)
			assert.Equal(t, "Factura guardada y se descontaron 4 unidades del stock.", resp.Message)
			assert.Equal(t, "Tornillos", resp.Invoice.Concept, "el concepto toma el nombre del stock")
			assert.Equal(t, item.ID, resp.Invoice.StockItemID)
			assert.Equal(t, "caja@local.test", resp.Invoice.CreatedBy)
			assert.Equal(t, "2026-03-14", resp.Invoice.Date)

			assert.Equal(t, 6, e.quantity(t, item.ID))
			require.Equal(t, 1, e.rec.count())
			assert.Equal(t, "Factura creada para Juan Pérez por 4 unidad(es) de Tornillos ($1500.5)", e.rec.descriptions[0])
		})
	}
}

func TestIssueInvoice_AgotaStockExacto(t *testing.T) {
	e := newEnv(t, billing.Options{})
	item := e.seed(t, "Clavos", 3)

	resp, err := e.uc.IssueInvoice(context.Background(), clerk, request("Clavos", 3))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.RemainingStock)
	assert.Equal(t, 0, e.quantity(t, item.ID))
}

func TestIssueInvoice_StockInsuficiente(t *testing.T) {
	e := newEnv(t, billing.Options{})
	item := e.seed(t, "Tornillos", 2)

	_, err := e.uc.IssueInvoice(context.Background(), clerk, request("Tornillos", 5))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, `Stock insuficiente para "Tornillos". Solo hay 2 unidades disponibles.`, domain.Message(err))

	assert.Equal(t, 2, e.quantity(t, item.ID))
	assert.Zero(t, e.invoices(t))
	assert.Zero(t, e.rec.count())
}

func TestIssueInvoice_ProductoInexistente(t *testing.T) {
	e := newEnv(t, billing.Options{})
	e.seed(t, "Tornillos", 2)

	_, err := e.uc.IssueInvoice(context.Background(), clerk, request("Tuercas", 1))
	require.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.Equal(t, `No existe un producto en stock llamado "Tuercas".`, domain.Message(err))
	assert.Zero(t, e.invoices(t))
}

func TestIssueInvoice_Validacion(t *testing.T) {
	e := newEnv(t, billing.Options{})
	e.seed(t, "Tornillos", 10)

	cases := map[string]func(r *dto.IssueInvoiceRequest){
		"sin cliente":    func(r *dto.IssueInvoiceRequest) { r.Client = " " },
		"sin fecha":      func(r *dto.IssueInvoiceRequest) { r.Date = "" },
		"sin concepto":   func(r *dto.IssueInvoiceRequest) { r.Concept = "" },
		"sin monto":      func(r *dto.IssueInvoiceRequest) { r.Amount = decimal.Zero },
		"cantidad cero":  func(r *dto.IssueInvoiceRequest) { r.Quantity = 0 },
		"monto negativo": func(r *dto.IssueInvoiceRequest) { r.Amount = decimal.NewFromInt(-1) },
		"fecha mal":      func(r *dto.IssueInvoiceRequest) { r.Date = "14/03/2026" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := request("Tornillos", 1)
			mutate(&req)
			_, err := e.uc.IssueInvoice(context.Background(), clerk, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	req := request("Tornillos", 1)
	req.Client = ""
	_, err := e.uc.IssueInvoice(context.Background(), clerk, req)
	assert.Equal(t, domain.MissingFieldsReason, domain.Message(err))
	assert.Zero(t, e.invoices(t))
}

func TestIssueInvoice_AtomicoConcurrente(t *testing.T) {
	e := newEnv(t, billing.Options{Consistency: billing.ConsistencyAtomic})
	item := e.seed(t, "Yerba", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.uc.IssueInvoice(context.Background(), clerk, request("Yerba", 1))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				fail++
				return
			}
			ok++
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, fail)
	assert.Equal(t, 0, e.quantity(t, item.ID))
	assert.Equal(t, 5, e.invoices(t))
}

// barrierStock retiene las lecturas por nombre hasta que n emisiones hayan leído,
// así ambas ven la misma cantidad antes de escribir.
type barrierStock struct {
	repository.StockRepository
	wg *sync.WaitGroup
}

func (b barrierStock) FindByNameKey(ctx context.Context, key string) (*entity.StockItem, error) {
	item, err := b.StockRepository.FindByNameKey(ctx, key)
	b.wg.Done()
	b.wg.Wait()
	return item, err
}

func TestIssueInvoice_SecuencialPierdeActualizaciones(t *testing.T) {
	store := memory.NewStore()
	item, err := inventory.NewLedger(store.Stock()).Create(context.Background(), inventory.NewItem{Name: "Harina", Quantity: 5})
	require.NoError(t, err)

	var barrier sync.WaitGroup
	barrier.Add(2)
	uc := billing.NewInvoiceUseCase(store, barrierStock{store.Stock(), &barrier}, store.Invoices(), &spyRecorder{}, nil, nil,
		billing.Options{Consistency: billing.ConsistencySequential}, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.IssueInvoice(context.Background(), clerk, request("Harina", 3))
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	// 6 unidades vendidas sobre 5 disponibles: la última escritura gana
	got, err := store.Stock().GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	list, err := store.Invoices().List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListInvoices_Filtros(t *testing.T) {
	e := newEnv(t, billing.Options{})
	e.seed(t, "Tornillos", 100)
	e.seed(t, "Pintura", 100)
	ctx := context.Background()

	for _, r := range []dto.IssueInvoiceRequest{
		{Client: "Ferretería Sur", Date: "2026-01-10", Concept: "Tornillos", Quantity: 1, Amount: decimal.NewFromInt(100)},
		{Client: "Juan Pérez", Date: "2026-02-05", Concept: "Pintura", Quantity: 2, Amount: decimal.NewFromInt(5000)},
		{Client: "Ana Gómez", Date: "2026-03-01", Concept: "Tornillos", Quantity: 3, Amount: decimal.NewFromInt(300)},
	} {
		_, err := e.uc.IssueInvoice(ctx, clerk, r)
		require.NoError(t, err)
	}

	all, err := e.uc.ListInvoices(ctx, dto.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ana Gómez", all[0].Client, "más recientes primero")

	byConcept, err := e.uc.ListInvoices(ctx, dto.InvoiceFilter{Search: "TORNI"})
	require.NoError(t, err)
	assert.Len(t, byConcept, 2)

	byClient, err := e.uc.ListInvoices(ctx, dto.InvoiceFilter{Search: "pérez"})
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	ranged, err := e.uc.ListInvoices(ctx, dto.InvoiceFilter{From: "2026-02-01", To: "2026-02-28"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Pintura", ranged[0].Concept)

	minAmt := decimal.NewFromInt(200)
	maxAmt := decimal.NewFromInt(1000)
	amounts, err := e.uc.ListInvoices(ctx, dto.InvoiceFilter{MinAmount: &minAmt, MaxAmount: &maxAmt})
	require.NoError(t, err)
	require.Len(t, amounts, 1)
	assert.Equal(t, "Ana Gómez", amounts[0].Client)

	_, err = e.uc.ListInvoices(ctx, dto.InvoiceFilter{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteInvoice_Politicas(t *testing.T) {
	cases := []struct {
		policy billing.DeletePolicy
		want   int
	}{
		{billing.KeepStock, 6},
		{billing.RestoreStock, 10},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			e := newEnv(t, billing.Options{DeletePolicy: tc.policy})
			item := e.seed(t, "Tornillos", 10)
			ctx := context.Background()
			resp, err := e.uc.IssueInvoice(ctx, clerk, request("Tornillos", 4))
			require.NoError(t, err)

			require.NoError(t, e.uc.DeleteInvoice(ctx, clerk, resp.Invoice.ID))
			assert.Equal(t, tc.want, e.quantity(t, item.ID))
			assert.Zero(t, e.invoices(t))
			assert.Equal(t, entity.ActivityBaja, e.rec.kinds[len(e.rec.kinds)-1])
			assert.Equal(t, "Factura eliminada: Cliente Juan Pérez, Concepto Tornillos, Monto $1500.5", e.rec.descriptions[len(e.rec.descriptions)-1])

			assert.ErrorIs(t, e.uc.DeleteInvoice(ctx, clerk, resp.Invoice.ID), domain.ErrNotFound)
		})
	}
}

func TestDeleteInvoice_RestaurarSinItem(t *testing.T) {
	e := newEnv(t, billing.Options{DeletePolicy: billing.RestoreStock})
	item := e.seed(t, "Tornillos", 10)
	ctx := context.Background()
	resp, err := e.uc.IssueInvoice(ctx, clerk, request("Tornillos", 4))
	require.NoError(t, err)
	require.NoError(t, e.store.Stock().Delete(ctx, item.ID))

	require.NoError(t, e.uc.DeleteInvoice(ctx, clerk, resp.Invoice.ID))
	assert.Zero(t, e.invoices(t))
}

func TestGetInvoiceYPDF(t *testing.T) {
	e := newEnv(t, billing.Options{})
	e.seed(t, "Tornillos", 10)
	ctx := context.Background()
	resp, err := e.uc.IssueInvoice(ctx, clerk, request("Tornillos", 1))
	require.NoError(t, err)

	got, err := e.uc.GetInvoice(ctx, resp.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Invoice.ID, got.ID)

	b, name, err := e.uc.InvoicePDF(ctx, resp.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "factura_"+resp.Invoice.ID[:8]+".pdf", name)
	assert.Equal(t, "%PDF", string(b[:4]))

	_, err = e.uc.GetInvoice(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = e.uc.InvoicePDF(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

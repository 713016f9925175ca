package suppliers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/application/suppliers"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
)

type nopRecorder struct{ descriptions []string }

func (n *nopRecorder) Record(_ context.Context, _, _, description string, _ session.Identity) {
	n.descriptions = append(n.descriptions, description)
}

// failingBills rechaza toda alta.
type failingBills struct {
	repository.SupplierBillRepository
}

func (failingBills) Create(context.Context, *entity.SupplierBill) error {
	return domain.Transport("supplier_bills.create", errors.New("timeout"))
}

var who = session.Identity{UserID: "u-1", Email: "caja@local.test"}

func request(supplier, cuit string) dto.RegisterSupplierBillRequest {
	return dto.RegisterSupplierBillRequest{
		Supplier: supplier,
		CUIT:     cuit,
		Concept:  "Mercadería",
		Amount:   decimal.RequireFromString("12500.75"),
	}
}

func TestRegister_ConAdjunto(t *testing.T) {
	store := memory.NewStore()
	files := store.Attachments("/files")
	rec := &nopRecorder{}
	uc := suppliers.NewSupplierBillUseCase(store.SupplierBills(), files, rec, 0, zerolog.Nop())

	req := request("Distribuidora Norte", "30-71234567-8")
	req.FileName = "../../factura marzo.pdf"
	req.File = []byte("%PDF-1.4 fake")

	resp, err := uc.Register(context.Background(), who, req)
	require.NoError(t, err)
	assert.Equal(t, "factura marzo.pdf", resp.AttachmentName)
	assert.Contains(t, resp.AttachmentURL, "/files/"+suppliers.AttachmentPrefix+"/")
	assert.Contains(t, resp.AttachmentURL, "_factura marzo.pdf")

	bill, err := store.SupplierBills().GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, files.Has(bill.AttachmentKey))
	require.Len(t, rec.descriptions, 1)
	assert.Equal(t, "Factura de proveedor cargada: Distribuidora Norte (CUIT 30-71234567-8), Mercadería por $12500.75", rec.descriptions[0])
}

func TestRegister_SinAdjuntoYDuplicado(t *testing.T) {
	store := memory.NewStore()
	uc := suppliers.NewSupplierBillUseCase(store.SupplierBills(), store.Attachments("/files"), &nopRecorder{}, 0, zerolog.Nop())
	ctx := context.Background()

	resp, err := uc.Register(ctx, who, request("Distribuidora Norte", "30-71234567-8"))
	require.NoError(t, err)
	assert.Equal(t, entity.NoAttachmentName, resp.AttachmentName)
	assert.Empty(t, resp.AttachmentURL)

	_, err = uc.Register(ctx, who, request(" Distribuidora Norte ", "30-71234567-8"))
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, "Ya existe una factura cargada para este proveedor con ese CUIT.", domain.Message(err))

	_, err = uc.Register(ctx, who, request("Distribuidora Norte", "30-99999999-1"))
	assert.NoError(t, err, "otro CUIT del mismo proveedor es válido")
}

func TestRegister_Validacion(t *testing.T) {
	store := memory.NewStore()
	uc := suppliers.NewSupplierBillUseCase(store.SupplierBills(), store.Attachments("/files"), &nopRecorder{}, 0, zerolog.Nop())

	for name, mutate := range map[string]func(*dto.RegisterSupplierBillRequest){
		"proveedor": func(r *dto.RegisterSupplierBillRequest) { r.Supplier = "" },
		"cuit":      func(r *dto.RegisterSupplierBillRequest) { r.CUIT = " " },
		"concepto":  func(r *dto.RegisterSupplierBillRequest) { r.Concept = "" },
		"monto":     func(r *dto.RegisterSupplierBillRequest) { r.Amount = decimal.Zero },
		"negativo":  func(r *dto.RegisterSupplierBillRequest) { r.Amount = decimal.NewFromInt(-5) },
	} {
		req := request("Distribuidora Norte", "30-71234567-8")
		mutate(&req)
		_, err := uc.Register(context.Background(), who, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestRegister_FalloDelAlmacenBorraAdjunto(t *testing.T) {
	store := memory.NewStore()
	files := store.Attachments("/files")
	rec := &nopRecorder{}
	uc := suppliers.NewSupplierBillUseCase(failingBills{store.SupplierBills()}, files, rec, 0, zerolog.Nop())

	req := request("Distribuidora Norte", "30-71234567-8")
	req.FileName = "f.pdf"
	req.File = []byte("x")
	_, err := uc.Register(context.Background(), who, req)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Empty(t, rec.descriptions)

	list, err := store.SupplierBills().List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListYDelete(t *testing.T) {
	store := memory.NewStore()
	files := store.Attachments("/files")
	rec := &nopRecorder{}
	uc := suppliers.NewSupplierBillUseCase(store.SupplierBills(), files, rec, 0, zerolog.Nop())
	ctx := context.Background()

	withFile := request("Distribuidora Norte", "30-71234567-8")
	withFile.FileName = "a.pdf"
	withFile.File = []byte("x")
	a, err := uc.Register(ctx, who, withFile)
	require.NoError(t, err)
	_, err = uc.Register(ctx, who, request("Lácteos del Valle", "30-55555555-5"))
	require.NoError(t, err)

	all, err := uc.List(ctx, dto.SupplierBillFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCUIT, err := uc.List(ctx, dto.SupplierBillFilter{Search: "5555"})
	require.NoError(t, err)
	require.Len(t, byCUIT, 1)
	assert.Equal(t, "Lácteos del Valle", byCUIT[0].Supplier)

	bill, err := store.SupplierBills().GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, who, a.ID))
	assert.False(t, files.Has(bill.AttachmentKey))
	assert.ErrorIs(t, uc.Delete(ctx, who, a.ID), domain.ErrNotFound)
	assert.Equal(t, "Factura de proveedor eliminada: Distribuidora Norte (CUIT 30-71234567-8), Monto $12500.75", rec.descriptions[len(rec.descriptions)-1])
}

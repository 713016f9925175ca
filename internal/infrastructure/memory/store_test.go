package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store, qty int) *entity.StockItem {
	t.Helper()
	item := &entity.StockItem{ID: "s1", Name: "Harina", NameKey: entity.NameKey("Harina"), Quantity: qty, Unit: entity.DefaultUnit}
	require.NoError(t, s.Stock().Create(context.Background(), item))
	return item
}

func TestRunBilling_RollbackAlFallar(t *testing.T) {
	s := memory.NewStore()
	item := seed(t, s, 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunBilling(ctx, func(ctx context.Context, stock repository.StockRepository, invoices repository.InvoiceRepository) error {
		require.NoError(t, invoices.Create(ctx, &entity.Invoice{ID: "i1", Amount: decimal.NewFromInt(10), CreatedAt: time.Now()}))
		left, err := stock.DecrementIfAvailable(ctx, item.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, left)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Stock().GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	inv, err := s.Invoices().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Nil(t, inv)
}

func TestRunBilling_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.RunBilling(ctx, func(context.Context, repository.StockRepository, repository.InvoiceRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStockRepo_DecrementIfAvailable(t *testing.T) {
	s := memory.NewStore()
	item := seed(t, s, 2)
	ctx := context.Background()

	_, err := s.Stock().DecrementIfAvailable(ctx, item.ID, 3)
	var ins *domain.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 2, ins.Available)

	_, err = s.Stock().DecrementIfAvailable(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockRepo_CopiasIndependientes(t *testing.T) {
	s := memory.NewStore()
	item := seed(t, s, 2)
	ctx := context.Background()

	got, err := s.Stock().GetByID(ctx, item.ID)
	require.NoError(t, err)
	got.Quantity = 99

	again, err := s.Stock().GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Quantity)
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@b.test"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{ID: "u2", Email: "a@b.test"}), domain.ErrDuplicate)

	u, err := s.Users().GetByEmail(ctx, "a@b.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestUserRepo_CargaHoraria(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u2", Email: "b@b.test", Name: "Bruno"}))
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@b.test", Name: "Ana"}))

	require.NoError(t, s.Users().SetHours(ctx, "u2", entity.WorkHours{Day: 6, Week: 30}))
	assert.ErrorIs(t, s.Users().SetHours(ctx, "nadie", entity.WorkHours{}), domain.ErrNotFound)

	list, err := s.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, 30.0, list[1].Hours.For(entity.HoursWeek))
	assert.Zero(t, list[1].Hours.For("quincena"))
}

func TestCustomerRepo_OrdenYBaja(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c1", Name: "Zapatería Paz"}))
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: "c2", Name: "Almacén Río"}))

	list, err := s.Customers().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)

	require.NoError(t, s.Customers().Delete(ctx, "c1"))
	got, err := s.Customers().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, s.Customers().Delete(ctx, "c1"), domain.ErrNotFound)
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner corre la emisión y la baja de facturas en una transacción READ COMMITTED.
// El descuento de stock es un UPDATE condicional, así que no hace falta SERIALIZABLE.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling hace commit si fn retorna nil; cualquier error revierte.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(ctx, NewStockRepository(tx), NewInvoiceRepository(tx))
	})
	if err == nil || domain.IsClassified(err) {
		return err
	}
	return wrap("billing transaction", err)
}

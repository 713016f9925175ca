package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner transacciones multi-documento. Requiere un replica set.
type TxRunner struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewTxRunner construye el runner.
func NewTxRunner(client *mongo.Client, db *mongo.Database) *TxRunner {
	return &TxRunner{client: client, db: db}
}

// RunBilling ejecuta fn en una transacción; el ctx que recibe fn lleva la sesión.
// El driver reintenta fn ante errores transitorios.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	ctx context.Context,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return wrap("start session", err)
	}
	defer sess.EndSession(ctx)

	stockRepo := NewStockRepository(r.db)
	invoiceRepo := NewInvoiceRepository(r.db)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, stockRepo, invoiceRepo)
	})
	return txError(err)
}

// txError deja pasar los errores de negocio de fn; los del driver (commit, abort,
// sesión) salen como TransportError.
func txError(err error) error {
	if err == nil || domain.IsClassified(err) {
		return err
	}
	return wrap("billing transaction", err)
}

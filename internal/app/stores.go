// Package app arma el grafo de dependencias a partir de la configuración.
// Lo usan el servidor HTTP y la CLI de administración.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/mongodb"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/backoffice-api/pkg/config"
)

// Stores repositorios del driver configurado.
type Stores struct {
	Stock         repository.StockRepository
	Invoices      repository.InvoiceRepository
	SupplierBills repository.SupplierBillRepository
	Activity      repository.ActivityRepository
	Users         repository.UserRepository
	Customers     repository.CustomerRepository
	TxRunner      billing.BillingTxRunner
	// Memory solo con DB_DRIVER=memory; sirve también de almacén de adjuntos.
	Memory *memory.Store
	Ping   func(ctx context.Context) error
	Close  func()
}

// OpenStores conecta el driver de DB_DRIVER y aplica migraciones o índices.
func OpenStores(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migración: %w", err)
		}
		return &Stores{
			Stock:         postgres.NewStockRepository(pool),
			Invoices:      postgres.NewInvoiceRepository(pool),
			SupplierBills: postgres.NewSupplierBillRepository(pool),
			Activity:      postgres.NewActivityRepository(pool),
			Users:         postgres.NewUserRepository(pool),
			Customers:     postgres.NewCustomerRepository(pool),
			TxRunner:      postgres.NewTxRunner(pool),
			Ping:          pool.Ping,
			Close:         pool.Close,
		}, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Stores{
			Stock:         mongodb.NewStockRepository(db),
			Invoices:      mongodb.NewInvoiceRepository(db),
			SupplierBills: mongodb.NewSupplierBillRepository(db),
			Activity:      mongodb.NewActivityRepository(db),
			Users:         mongodb.NewUserRepository(db),
			Customers:     mongodb.NewCustomerRepository(db),
			TxRunner:      mongodb.NewTxRunner(client, db),
			Ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:         func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMemory:
		s := memory.NewStore()
		return &Stores{
			Stock:         s.Stock(),
			Invoices:      s.Invoices(),
			SupplierBills: s.SupplierBills(),
			Activity:      s.Activity(),
			Users:         s.Users(),
			Customers:     s.Customers(),
			TxRunner:      s,
			Memory:        s,
			Close:         func() {},
		}, nil
	}
	return nil, fmt.Errorf("driver no soportado: %q", cfg.Driver)
}

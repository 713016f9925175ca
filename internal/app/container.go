package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/analytics"
	"github.com/jhoicas/backoffice-api/internal/application/audit"
	"github.com/jhoicas/backoffice-api/internal/application/auth"
	"github.com/jhoicas/backoffice-api/internal/application/billing"
	"github.com/jhoicas/backoffice-api/internal/application/customers"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/application/staff"
	"github.com/jhoicas/backoffice-api/internal/application/suppliers"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/outbox"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/pdf"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/storage"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/ws"
	"github.com/jhoicas/backoffice-api/pkg/config"
)

// Container casos de uso listos para usar.
type Container struct {
	Stores   *Stores
	Outbox   *outbox.SQLiteOutbox
	Recorder *audit.Recorder
	Hub      *ws.Hub
	// FilesDir directorio de adjuntos servido como estático; vacío con el driver memory.
	FilesDir string

	Auth        *auth.AuthUseCase
	Invoices    *billing.InvoiceUseCase
	Stock       *inventory.StockUseCase
	Adjustments *inventory.AdjustmentUseCase
	Suppliers   *suppliers.SupplierBillUseCase
	Reports     *analytics.ReportUseCase
	History     *audit.HistoryUseCase
	Customers   *customers.CustomerUseCase
	Staff       *staff.StaffUseCase
}

// Options ajustes del armado que dependen del proceso.
type Options struct {
	// AsyncAudit usa la cola en segundo plano del historial (servidor); la CLI escribe en línea.
	AsyncAudit bool
	// Hub publica eventos en vivo; nil los descarta.
	Hub *ws.Hub
}

// Build conecta el almacén, abre el outbox y construye los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*Container, error) {
	stores, err := OpenStores(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	ob, err := outbox.Open(cfg.Audit.OutboxPath)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("outbox: %w", err)
	}

	var (
		attachments repository.AttachmentStore
		filesDir    string
	)
	if stores.Memory != nil {
		attachments = stores.Memory.Attachments(cfg.Storage.PublicBaseURL)
	} else {
		local, err := storage.NewLocalStore(cfg.Storage.AttachmentsDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			ob.Close()
			stores.Close()
			return nil, err
		}
		attachments = local
		filesDir = local.Root()
	}

	queue := 0
	if opts.AsyncAudit {
		queue = cfg.Audit.QueueSize
	}
	// publisher queda como interfaz nil si no hay hub
	var publisher interface{ Publish(string, any) }
	if opts.Hub != nil {
		publisher = opts.Hub
	}

	recorder := audit.NewRecorder(stores.Activity, ob, publisher, log, audit.Options{
		QueueSize:    queue,
		WriteTimeout: cfg.Audit.WriteTimeout,
	})
	gen := pdf.NewMarotoPDFGenerator(cfg.App.Name)
	stockUC := inventory.NewStockUseCase(stores.Stock, recorder, publisher, cfg.Stock.ExpiryWarningDays, log)

	return &Container{
		Stores:   stores,
		Outbox:   ob,
		Recorder: recorder,
		Hub:      opts.Hub,
		FilesDir: filesDir,
		Auth: auth.NewAuthUseCase(stores.Users, recorder, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Invoices: billing.NewInvoiceUseCase(stores.TxRunner, stores.Stock, stores.Invoices, recorder, publisher, gen, billing.Options{
			Consistency:  billing.Consistency(cfg.Stock.Consistency),
			DeletePolicy: billing.DeletePolicy(cfg.Billing.DeletePolicy),
			ListLimit:    cfg.Billing.ListLimit,
		}, log),
		Stock:       stockUC,
		Adjustments: inventory.NewAdjustmentUseCase(stockUC.Ledger(), recorder, publisher, nil),
		Suppliers:   suppliers.NewSupplierBillUseCase(stores.SupplierBills, attachments, recorder, cfg.Billing.ListLimit, log),
		Reports:     analytics.NewReportUseCase(stores.Invoices, stores.SupplierBills, stores.Stock, recorder, gen, cfg.Stock.ExpiryWarningDays, cfg.Billing.ListLimit),
		History:     audit.NewHistoryUseCase(stores.Activity, cfg.Billing.ListLimit),
		Customers:   customers.NewCustomerUseCase(stores.Customers, recorder, cfg.Billing.ListLimit),
		Staff:       staff.NewStaffUseCase(stores.Users, recorder, gen),
	}, nil
}

// Close vacía la cola del historial y cierra outbox y almacén.
func (c *Container) Close(ctx context.Context) error {
	err := c.Recorder.Close(ctx)
	err = errors.Join(err, c.Outbox.Close())
	c.Stores.Close()
	return err
}

package billing

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// BillingTxRunner ejecuta fn dentro de una transacción del almacén con repos atados a ella.
// Si fn retorna error no queda ninguna escritura aplicada.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		ctx context.Context,
		stockRepo repository.StockRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación en PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// ActivityRecorder registra actividad en el historial. Nunca falla hacia el llamador.
type ActivityRecorder interface {
	Record(ctx context.Context, kind, module, description string, who session.Identity)
}

// Publisher notifica eventos a los suscriptores en vivo.
type Publisher interface {
	Publish(topic string, payload any)
}

// TopicInvoices tópico de eventos de facturación.
const TopicInvoices = "invoices"

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/inventory"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/backoffice-api/internal/application/billing")

// Consistency modo de escritura de factura + descuento de stock.
type Consistency string

const (
	// ConsistencyAtomic: búsqueda, factura y descuento condicional en una sola transacción.
	ConsistencyAtomic Consistency = "atomic"
	// ConsistencySequential: factura y luego lectura-cálculo-escritura del stock, sin transacción.
	ConsistencySequential Consistency = "sequential"
)

// DeletePolicy qué hacer con el stock al eliminar una factura.
type DeletePolicy string

const (
	KeepStock    DeletePolicy = "keep_stock"
	RestoreStock DeletePolicy = "restore_stock"
)

const dateLayout = "2006-01-02"

// Options configuración del caso de uso.
type Options struct {
	Consistency  Consistency
	DeletePolicy DeletePolicy
	ListLimit    int
}

// InvoiceUseCase emite, lista y elimina facturas de venta descontando stock.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	stockRepo   repository.StockRepository
	invoiceRepo repository.InvoiceRepository
	recorder    ActivityRecorder
	publisher   Publisher
	pdf         InvoicePDFGenerator
	opts        Options
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
	recorder ActivityRecorder,
	publisher Publisher,
	pdf InvoicePDFGenerator,
	opts Options,
	log zerolog.Logger,
) *InvoiceUseCase {
	if opts.Consistency == "" {
		opts.Consistency = ConsistencyAtomic
	}
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = KeepStock
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = dto.DefaultListLimit
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		invoiceRepo: invoiceRepo,
		recorder:    recorder,
		publisher:   publisher,
		pdf:         pdf,
		opts:        opts,
		log:         log,
		now:         time.Now,
	}
}

type issueInput struct {
	client   string
	date     time.Time
	concept  string
	quantity int
	amount   decimal.Decimal
	detail   string
}

func validateIssue(in dto.IssueInvoiceRequest) (*issueInput, error) {
	out := &issueInput{
		client:   strings.TrimSpace(in.Client),
		concept:  strings.TrimSpace(in.Concept),
		quantity: in.Quantity,
		amount:   in.Amount,
		detail:   strings.TrimSpace(in.Detail),
	}
	dateStr := strings.TrimSpace(in.Date)
	switch {
	case out.client == "":
		return nil, domain.Invalid("client", domain.MissingFieldsReason)
	case dateStr == "":
		return nil, domain.Invalid("date", domain.MissingFieldsReason)
	case out.concept == "":
		return nil, domain.Invalid("concept", domain.MissingFieldsReason)
	case out.amount.IsZero():
		return nil, domain.Invalid("amount", domain.MissingFieldsReason)
	case out.quantity <= 0:
		return nil, domain.Invalid("quantity", "La cantidad debe ser mayor a cero.")
	case out.amount.IsNegative():
		return nil, domain.Invalid("amount", "El monto debe ser mayor a cero.")
	}
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, domain.Invalid("date", "Fecha inválida, use el formato AAAA-MM-DD.")
	}
	out.date = d
	return out, nil
}

// IssueInvoice valida la factura, verifica el stock del concepto, guarda la factura,
// descuenta el stock y registra la actividad. El registro de actividad nunca afecta el resultado.
func (uc *InvoiceUseCase) IssueInvoice(ctx context.Context, who session.Identity, req dto.IssueInvoiceRequest) (*dto.IssueInvoiceResponse, error) {
	ctx, span := tracer.Start(ctx, "billing.IssueInvoice")
	defer span.End()
	span.SetAttributes(attribute.String("billing.consistency", string(uc.opts.Consistency)))

	in, err := validateIssue(req)
	if err != nil {
		return nil, err
	}

	var (
		inv       *entity.Invoice
		remaining int
	)
	if uc.opts.Consistency == ConsistencySequential {
		inv, remaining, err = uc.issueSequential(ctx, who, in)
	} else {
		inv, remaining, err = uc.issueAtomic(ctx, who, in)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue invoice failed")
		return nil, err
	}

	uc.recorder.Record(ctx, entity.ActivityAlta, entity.ModuleFacturacion,
		fmt.Sprintf("Factura creada para %s por %d unidad(es) de %s ($%s)", inv.Client, inv.Quantity, inv.Concept, inv.Amount.String()), who)

	resp := toInvoiceResponse(inv)
	uc.publisher.Publish(TopicInvoices, resp)
	uc.publisher.Publish(inventory.TopicStock, map[string]any{"id": inv.StockItemID, "quantity": remaining})
	return &dto.IssueInvoiceResponse{
		Invoice:        resp,
		RemainingStock: remaining,
		Message:        fmt.Sprintf("Factura guardada y se descontaron %d unidades del stock.", inv.Quantity),
	}, nil
}

func (uc *InvoiceUseCase) newInvoice(who session.Identity, in *issueInput, item *entity.StockItem) *entity.Invoice {
	return &entity.Invoice{
		ID:          uuid.New().String(),
		Client:      in.client,
		Date:        in.date,
		StockItemID: item.ID,
		Concept:     item.Name,
		Quantity:    in.quantity,
		Amount:      in.amount,
		Detail:      in.detail,
		CreatedBy:   who.Actor(),
		CreatedAt:   uc.now().UTC(),
	}
}

func checkAvailable(ctx context.Context, ledger *inventory.Ledger, in *issueInput) (*entity.StockItem, error) {
	item, err := ledger.FindByName(ctx, in.concept)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &domain.UnknownProductError{Concept: in.concept}
	}
	if item.Quantity < in.quantity {
		return nil, &domain.InsufficientStockError{Product: item.Name, Available: item.Quantity, Requested: in.quantity}
	}
	return item, nil
}

// issueAtomic corre búsqueda, alta y descuento condicional en una transacción.
func (uc *InvoiceUseCase) issueAtomic(ctx context.Context, who session.Identity, in *issueInput) (*entity.Invoice, int, error) {
	var (
		inv       *entity.Invoice
		remaining int
	)
	err := uc.txRunner.RunBilling(ctx, func(ctx context.Context, stockRepo repository.StockRepository, invoiceRepo repository.InvoiceRepository) error {
		ledger := inventory.NewLedger(stockRepo)
		item, err := checkAvailable(ctx, ledger, in)
		if err != nil {
			return err
		}
		inv = uc.newInvoice(who, in, item)
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		remaining, err = ledger.Withdraw(ctx, item.ID, in.quantity)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return inv, remaining, nil
}

// issueSequential escribe la factura y luego fija el stock calculado con la lectura previa.
// Dos emisiones concurrentes pueden pasar ambas la verificación (última escritura gana).
func (uc *InvoiceUseCase) issueSequential(ctx context.Context, who session.Identity, in *issueInput) (*entity.Invoice, int, error) {
	ledger := inventory.NewLedger(uc.stockRepo)
	item, err := checkAvailable(ctx, ledger, in)
	if err != nil {
		return nil, 0, err
	}
	inv := uc.newInvoice(who, in, item)
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, 0, err
	}
	adj, err := ledger.AdjustQuantity(ctx, item.ID, inventory.SetTo(item.Quantity-in.quantity))
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Str("stock_item_id", item.ID).
			Msg("factura guardada sin descuento de stock")
		return nil, 0, err
	}
	return inv, adj.Current, nil
}

// GetInvoice obtiene una factura por ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	resp := toInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices lista las facturas más recientes primero, filtradas en memoria.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, f dto.InvoiceFilter) ([]dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List(ctx, uc.opts.ListLimit)
	if err != nil {
		return nil, err
	}
	var from, to *time.Time
	if f.From != "" {
		t, err := time.Parse(dateLayout, f.From)
		if err != nil {
			return nil, domain.Invalid("from", "Fecha inválida, use el formato AAAA-MM-DD.")
		}
		from = &t
	}
	if f.To != "" {
		t, err := time.Parse(dateLayout, f.To)
		if err != nil {
			return nil, domain.Invalid("to", "Fecha inválida, use el formato AAAA-MM-DD.")
		}
		to = &t
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.Client), search) &&
			!strings.Contains(strings.ToLower(inv.Concept), search) {
			continue
		}
		if from != nil && inv.Date.Before(*from) {
			continue
		}
		if to != nil && inv.Date.After(*to) {
			continue
		}
		if f.MinAmount != nil && inv.Amount.LessThan(*f.MinAmount) {
			continue
		}
		if f.MaxAmount != nil && inv.Amount.GreaterThan(*f.MaxAmount) {
			continue
		}
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// DeleteInvoice elimina la factura y, según la política, devuelve las unidades al stock.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, who session.Identity, id string) error {
	var deleted *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(ctx context.Context, stockRepo repository.StockRepository, invoiceRepo repository.InvoiceRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := invoiceRepo.Delete(ctx, id); err != nil {
			return err
		}
		deleted = inv
		if uc.opts.DeletePolicy != RestoreStock || inv.StockItemID == "" {
			return nil
		}
		_, err = inventory.NewLedger(stockRepo).AdjustQuantity(ctx, inv.StockItemID, inventory.By(inv.Quantity))
		if errors.Is(err, domain.ErrNotFound) {
			// el ítem ya no existe: no hay stock que restituir
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, entity.ActivityBaja, entity.ModuleFacturacion,
		fmt.Sprintf("Factura eliminada: Cliente %s, Concepto %s, Monto $%s", deleted.Client, deleted.Concept, deleted.Amount.String()), who)
	uc.publisher.Publish(TopicInvoices, map[string]string{"deleted": id})
	return nil
}

// InvoicePDF genera el PDF de la factura. Retorna bytes y nombre de archivo.
func (uc *InvoiceUseCase) InvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	b, err := uc.pdf.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := inv.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return b, fmt.Sprintf("factura_%s.pdf", short), nil
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:          inv.ID,
		Client:      inv.Client,
		Date:        inv.Date.Format(dateLayout),
		StockItemID: inv.StockItemID,
		Concept:     inv.Concept,
		Quantity:    inv.Quantity,
		Amount:      inv.Amount,
		Detail:      inv.Detail,
		CreatedBy:   inv.CreatedBy,
		CreatedAt:   inv.CreatedAt,
	}
}

package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var tracer = otel.Tracer("github.com/jhoicas/backoffice-api/internal/application/inventory")

// DefaultReason motivo registrado cuando el ajuste no trae uno.
const DefaultReason = "sin especificar"

// DraftBook entradas pendientes de ajuste por usuario y por ítem.
type DraftBook struct {
	mu     sync.Mutex
	drafts map[draftKey]dto.AdjustmentDraft
}

type draftKey struct{ user, item string }

// NewDraftBook construye un DraftBook vacío.
func NewDraftBook() *DraftBook {
	return &DraftBook{drafts: make(map[draftKey]dto.AdjustmentDraft)}
}

// Save guarda el borrador del usuario para el ítem.
func (b *DraftBook) Save(who session.Identity, itemID string, d dto.AdjustmentDraft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts[draftKey{who.Key(), itemID}] = d
}

// Get retorna el borrador guardado, si existe.
func (b *DraftBook) Get(who session.Identity, itemID string) (dto.AdjustmentDraft, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[draftKey{who.Key(), itemID}]
	return d, ok
}

// Clear descarta el borrador.
func (b *DraftBook) Clear(who session.Identity, itemID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drafts, draftKey{who.Key(), itemID})
}

// AdjustmentUseCase ajuste manual de stock por merma o rotura.
type AdjustmentUseCase struct {
	ledger    *Ledger
	recorder  ActivityRecorder
	publisher Publisher
	drafts    *DraftBook
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(ledger *Ledger, recorder ActivityRecorder, publisher Publisher, drafts *DraftBook) *AdjustmentUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if drafts == nil {
		drafts = NewDraftBook()
	}
	return &AdjustmentUseCase{ledger: ledger, recorder: recorder, publisher: publisher, drafts: drafts}
}

// Drafts expone el libro de borradores.
func (uc *AdjustmentUseCase) Drafts() *DraftBook { return uc.drafts }

// ApplyAdjustment descuenta quantityInput unidades del ítem.
// Una cantidad vacía, no numérica o <= 0 se ignora sin error (Applied=false).
// Si el resultado quedara negativo falla con NegativeStockError y no aplica nada.
func (uc *AdjustmentUseCase) ApplyAdjustment(ctx context.Context, who session.Identity, itemID, quantityInput, reason string) (*dto.AdjustmentResponse, error) {
	ctx, span := tracer.Start(ctx, "inventory.ApplyAdjustment")
	defer span.End()

	qty, err := strconv.Atoi(strings.TrimSpace(quantityInput))
	if err != nil || qty <= 0 {
		return &dto.AdjustmentResponse{Applied: false}, nil
	}
	span.SetAttributes(attribute.String("stock.item_id", itemID), attribute.Int("stock.quantity", qty))

	adj, err := uc.ledger.AdjustQuantity(ctx, itemID, By(-qty))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultReason
	}
	uc.recorder.Record(ctx, entity.ActivityAjuste, entity.ModuleStock,
		fmt.Sprintf("Ajuste manual: %s (-%d %s). Motivo: %s", adj.Item.Name, qty, adj.Item.Unit, reason), who)
	uc.drafts.Clear(who, itemID)
	uc.publisher.Publish(TopicStock, map[string]any{"id": adj.Item.ID, "quantity": adj.Current})

	return &dto.AdjustmentResponse{
		Applied:  true,
		Previous: adj.Previous,
		Current:  adj.Current,
		Message:  fmt.Sprintf("Stock ajustado para %q.", adj.Item.Name),
	}, nil
}

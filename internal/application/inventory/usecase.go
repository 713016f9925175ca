package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/session"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// StockUseCase pantalla de stock: alta, listado con filtros, cambio de cantidad y baja.
type StockUseCase struct {
	ledger       *Ledger
	repo         repository.StockRepository
	recorder     ActivityRecorder
	publisher    Publisher
	expiryWindow time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

// NewStockUseCase construye el caso de uso. expiryWarningDays define cuándo un ítem "vence pronto".
func NewStockUseCase(repo repository.StockRepository, recorder ActivityRecorder, publisher Publisher, expiryWarningDays int, log zerolog.Logger) *StockUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if expiryWarningDays <= 0 {
		expiryWarningDays = 30
	}
	return &StockUseCase{
		ledger:       NewLedger(repo),
		repo:         repo,
		recorder:     recorder,
		publisher:    publisher,
		expiryWindow: time.Duration(expiryWarningDays) * 24 * time.Hour,
		log:          log,
		now:          time.Now,
	}
}

// Ledger expone el ledger subyacente.
func (uc *StockUseCase) Ledger() *Ledger { return uc.ledger }

// Create da de alta un ítem y registra la actividad.
func (uc *StockUseCase) Create(ctx context.Context, who session.Identity, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.Quantity == nil {
		return nil, domain.Invalid("quantity", domain.MissingFieldsReason)
	}
	prod, err := parseOptionalDate("production_date", in.ProductionDate)
	if err != nil {
		return nil, err
	}
	exp, err := parseOptionalDate("expiry_date", in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	item, err := uc.ledger.Create(ctx, NewItem{
		Name:           in.Name,
		Quantity:       *in.Quantity,
		Unit:           in.Unit,
		ProductionDate: prod,
		ExpiryDate:     exp,
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityAlta, entity.ModuleStock,
		fmt.Sprintf("Producto agregado: %s (%d %s)", item.Name, item.Quantity, item.Unit), who)
	resp := uc.toResponse(item)
	uc.publisher.Publish(TopicStock, resp)
	return &resp, nil
}

// List retorna el stock ordenado por nombre, filtrado en memoria.
func (uc *StockUseCase) List(ctx context.Context, f dto.StockFilter) ([]dto.StockItemResponse, error) {
	items, err := uc.ledger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	search := entity.NameKey(f.Search)
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		if search != "" && !strings.Contains(it.NameKey, search) {
			continue
		}
		if f.MinQuantity != nil && it.Quantity < *f.MinQuantity {
			continue
		}
		if f.MaxQuantity != nil && it.Quantity > *f.MaxQuantity {
			continue
		}
		out = append(out, uc.toResponse(it))
	}
	return out, nil
}

// SetQuantity fija la cantidad desde la tabla de stock y registra el ajuste.
func (uc *StockUseCase) SetQuantity(ctx context.Context, who session.Identity, id string, quantity int) (*dto.StockItemResponse, error) {
	adj, err := uc.ledger.AdjustQuantity(ctx, id, SetTo(quantity))
	if err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, entity.ActivityAjuste, entity.ModuleStock,
		fmt.Sprintf("Stock ajustado: %s (de %d a %d)", adj.Item.Name, adj.Previous, adj.Current), who)
	resp := uc.toResponse(adj.Item)
	uc.publisher.Publish(TopicStock, resp)
	return &resp, nil
}

// Delete elimina un ítem y registra la baja.
func (uc *StockUseCase) Delete(ctx context.Context, who session.Identity, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(ctx, entity.ActivityBaja, entity.ModuleStock,
		fmt.Sprintf("Producto eliminado: %s", item.Name), who)
	uc.publisher.Publish(TopicStock, map[string]string{"deleted": id})
	return nil
}

func (uc *StockUseCase) toResponse(it *entity.StockItem) dto.StockItemResponse {
	return dto.StockItemResponse{
		ID:             it.ID,
		Name:           it.Name,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		ProductionDate: it.ProductionDate,
		ExpiryDate:     it.ExpiryDate,
		ExpiresSoon:    it.ExpiresWithin(uc.now(), uc.expiryWindow),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.Invalid(field, "Fecha inválida, use el formato AAAA-MM-DD.")
	}
	return &t, nil
}

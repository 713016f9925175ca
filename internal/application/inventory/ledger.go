package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Ledger opera sobre los ítems de stock: lectura, alta sin duplicados y ajuste de cantidad.
// No registra actividad; eso queda a cargo de quien lo llama.
type Ledger struct {
	repo repository.StockRepository
	now  func() time.Time
}

// NewLedger construye el ledger sobre un repositorio (pool o transacción).
func NewLedger(repo repository.StockRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// NewItem datos de alta de un ítem.
type NewItem struct {
	Name           string
	Quantity       int
	Unit           string
	ProductionDate *time.Time
	ExpiryDate     *time.Time
}

// Change variación de cantidad: Absolute fija el valor, si no se suma Delta.
type Change struct {
	Delta    int
	Absolute *int
}

// SetTo construye un Change absoluto.
func SetTo(n int) Change { return Change{Absolute: &n} }

// By construye un Change relativo.
func By(delta int) Change { return Change{Delta: delta} }

// Adjustment cantidades antes y después de un ajuste.
type Adjustment struct {
	Item     *entity.StockItem
	Previous int
	Current  int
}

// ListAll retorna todos los ítems ordenados por nombre ascendente (desempate por id).
func (l *Ledger) ListAll(ctx context.Context) ([]*entity.StockItem, error) {
	items, err := l.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].NameKey != items[j].NameKey {
			return items[i].NameKey < items[j].NameKey
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// FindByName busca un ítem por nombre sin distinguir mayúsculas ni espacios en los extremos.
// Retorna (nil, nil) si no existe.
func (l *Ledger) FindByName(ctx context.Context, name string) (*entity.StockItem, error) {
	key := entity.NameKey(name)
	if key == "" {
		return nil, nil
	}
	return l.repo.FindByNameKey(ctx, key)
}

// Create da de alta un ítem. Falla con DuplicateNameError si el nombre ya existe.
func (l *Ledger) Create(ctx context.Context, in NewItem) (*entity.StockItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", domain.MissingFieldsReason)
	}
	if in.Quantity < 0 {
		return nil, domain.Invalid("quantity", "La cantidad no puede ser negativa.")
	}
	existing, err := l.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DuplicateNameError{Name: existing.Name}
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	now := l.now().UTC()
	item := &entity.StockItem{
		ID:             uuid.New().String(),
		Name:           name,
		NameKey:        entity.NameKey(name),
		Quantity:       in.Quantity,
		Unit:           unit,
		ProductionDate: in.ProductionDate,
		ExpiryDate:     in.ExpiryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustQuantity aplica un Change. Falla con ErrNotFound si el ítem no existe y con
// NegativeStockError si el resultado sería menor a cero; en ese caso no persiste nada.
func (l *Ledger) AdjustQuantity(ctx context.Context, id string, change Change) (*Adjustment, error) {
	item, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	next := item.Quantity + change.Delta
	if change.Absolute != nil {
		next = *change.Absolute
	}
	if next < 0 {
		return nil, &domain.NegativeStockError{Product: item.Name, Current: item.Quantity, Requested: item.Quantity - next}
	}
	if err := l.repo.SetQuantity(ctx, id, next); err != nil {
		return nil, err
	}
	prev := item.Quantity
	item.Quantity = next
	item.UpdatedAt = l.now().UTC()
	return &Adjustment{Item: item, Previous: prev, Current: next}, nil
}

// Withdraw descuenta qty en una sola operación condicional del almacén.
// Retorna la cantidad restante o InsufficientStockError sin modificar nada.
func (l *Ledger) Withdraw(ctx context.Context, id string, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.Invalid("quantity", "La cantidad debe ser mayor a cero.")
	}
	return l.repo.DecrementIfAvailable(ctx, id, qty)
}

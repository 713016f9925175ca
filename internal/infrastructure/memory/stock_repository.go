package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
type StockRepo struct {
	g guard
}

// Create persiste un ítem. Copia el valor para que el llamador no comparta el puntero.
func (r *StockRepo) Create(_ context.Context, item *entity.StockItem) error {
	defer r.g.lock()()
	if _, ok := r.g.s.stock[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.g.s.stock[item.ID] = item.Clone()
	return nil
}

// GetByID retorna (nil, nil) si no existe.
func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	defer r.g.lock()()
	return r.g.s.stock[id].Clone(), nil
}

// FindByNameKey retorna el primer ítem (por id) con la clave dada.
func (r *StockRepo) FindByNameKey(_ context.Context, key string) (*entity.StockItem, error) {
	defer r.g.lock()()
	var found *entity.StockItem
	for _, it := range r.g.s.stock {
		if it.NameKey != key {
			continue
		}
		if found == nil || it.ID < found.ID {
			found = it
		}
	}
	return found.Clone(), nil
}

// List retorna todos los ítems ordenados por nombre.
func (r *StockRepo) List(_ context.Context) ([]*entity.StockItem, error) {
	defer r.g.lock()()
	out := make([]*entity.StockItem, 0, len(r.g.s.stock))
	for _, it := range r.g.s.stock {
		out = append(out, it.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NameKey != out[j].NameKey {
			return out[i].NameKey < out[j].NameKey
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetQuantity fija la cantidad (última escritura gana).
func (r *StockRepo) SetQuantity(_ context.Context, id string, quantity int) error {
	defer r.g.lock()()
	it, ok := r.g.s.stock[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now().UTC()
	return nil
}

// DecrementIfAvailable descuenta qty si alcanza; la verificación y la escritura ocurren bajo el mismo lock.
func (r *StockRepo) DecrementIfAvailable(_ context.Context, id string, qty int) (int, error) {
	defer r.g.lock()()
	it, ok := r.g.s.stock[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if it.Quantity < qty {
		return 0, &domain.InsufficientStockError{Product: it.Name, Available: it.Quantity, Requested: qty}
	}
	it.Quantity -= qty
	it.UpdatedAt = time.Now().UTC()
	return it.Quantity, nil
}

// Delete elimina el ítem; ErrNotFound si no existe.
func (r *StockRepo) Delete(_ context.Context, id string) error {
	defer r.g.lock()()
	if _, ok := r.g.s.stock[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.g.s.stock, id)
	return nil
}

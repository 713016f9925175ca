package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, name, name_key, quantity, unit, production_date, expiry_date, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	if err := row.Scan(&s.ID, &s.Name, &s.NameKey, &s.Quantity, &s.Unit,
		&s.ProductionDate, &s.ExpiryDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un ítem nuevo.
func (r *StockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.NameKey, item.Quantity, item.Unit,
		nullTime(item.ProductionDate), nullTime(item.ExpiryDate), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert stock item", err)
	}
	return nil
}

// GetByID obtiene un ítem; (nil, nil) si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE id = $1`
	s, err := scanStockItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get stock item", err)
	}
	return s, nil
}

// FindByNameKey obtiene el ítem más antiguo con esa clave de nombre.
func (r *StockRepo) FindByNameKey(ctx context.Context, key string) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE name_key = $1 ORDER BY created_at, id LIMIT 1`
	s, err := scanStockItem(r.q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("find stock item by name", err)
	}
	return s, nil
}

// List retorna todos los ítems ordenados por nombre.
func (r *StockRepo) List(ctx context.Context) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items ORDER BY name_key, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrap("list stock items", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		s, err := scanStockItem(rows)
		if err != nil {
			return nil, wrap("scan stock item", err)
		}
		list = append(list, s)
	}
	return list, wrap("list stock items", rows.Err())
}

// SetQuantity fija la cantidad; ErrNotFound si no hay fila.
func (r *StockRepo) SetQuantity(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return wrap("update stock quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementIfAvailable descuenta en un único UPDATE condicional. La fila queda bloqueada
// hasta el fin de la transacción, por lo que dos emisiones concurrentes se serializan.
func (r *StockRepo) DecrementIfAvailable(ctx context.Context, id string, qty int) (int, error) {
	var remaining int
	err := r.q.QueryRow(ctx, `
		UPDATE stock_items SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`, id, qty).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrap("decrement stock", err)
	}
	// Sin fila: o no existe o no alcanza.
	item, gerr := r.GetByID(ctx, id)
	if gerr != nil {
		return 0, gerr
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return 0, &domain.InsufficientStockError{Product: item.Name, Available: item.Quantity, Requested: qty}
}

// Delete elimina el ítem; ErrNotFound si no existe.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return wrap("delete stock item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

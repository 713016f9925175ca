package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, client, date, COALESCE(stock_item_id::text, ''), concept, quantity, amount, detail, created_by, created_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(&inv.ID, &inv.Client, &inv.Date, &inv.StockItemID, &inv.Concept,
		&inv.Quantity, &inv.Amount, &inv.Detail, &inv.CreatedBy, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	var stockItemID any
	if inv.StockItemID != "" {
		stockItemID = inv.StockItemID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, client, date, stock_item_id, concept, quantity, amount, detail, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.Client, inv.Date, stockItemID, inv.Concept, inv.Quantity, inv.Amount,
		inv.Detail, inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert invoice", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get invoice", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, wrap("list invoices", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, wrap("scan invoice", err)
		}
		list = append(list, inv)
	}
	return list, wrap("list invoices", rows.Err())
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return wrap("delete invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

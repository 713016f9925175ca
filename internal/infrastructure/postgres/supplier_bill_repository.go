package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.SupplierBillRepository = (*SupplierBillRepo)(nil)

// SupplierBillRepo facturas de proveedores sobre PostgreSQL.
type SupplierBillRepo struct {
	q Querier
}

// NewSupplierBillRepository construye el adaptador.
func NewSupplierBillRepository(q Querier) *SupplierBillRepo {
	return &SupplierBillRepo{q: q}
}

const billColumns = `id, supplier, cuit, concept, amount, attachment_key, attachment_url, attachment_name, uploaded_at`

func scanBill(row pgx.Row) (*entity.SupplierBill, error) {
	var b entity.SupplierBill
	if err := row.Scan(&b.ID, &b.Supplier, &b.CUIT, &b.Concept, &b.Amount,
		&b.AttachmentKey, &b.AttachmentURL, &b.AttachmentName, &b.UploadedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SupplierBillRepo) Create(ctx context.Context, b *entity.SupplierBill) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO supplier_bills (`+billColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.Supplier, b.CUIT, b.Concept, b.Amount,
		b.AttachmentKey, b.AttachmentURL, b.AttachmentName, b.UploadedAt,
	)
	return wrap("insert supplier bill", err)
}

func (r *SupplierBillRepo) GetByID(ctx context.Context, id string) (*entity.SupplierBill, error) {
	b, err := scanBill(r.q.QueryRow(ctx, `SELECT `+billColumns+` FROM supplier_bills WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get supplier bill", err)
	}
	return b, nil
}

func (r *SupplierBillRepo) FindBySupplierAndCUIT(ctx context.Context, supplier, cuit string) (*entity.SupplierBill, error) {
	b, err := scanBill(r.q.QueryRow(ctx,
		`SELECT `+billColumns+` FROM supplier_bills WHERE supplier = $1 AND cuit = $2 LIMIT 1`, supplier, cuit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("find supplier bill", err)
	}
	return b, nil
}

func (r *SupplierBillRepo) List(ctx context.Context, limit int) ([]*entity.SupplierBill, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+billColumns+` FROM supplier_bills ORDER BY uploaded_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, wrap("list supplier bills", err)
	}
	defer rows.Close()
	var list []*entity.SupplierBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, wrap("scan supplier bill", err)
		}
		list = append(list, b)
	}
	return list, wrap("list supplier bills", rows.Err())
}

func (r *SupplierBillRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM supplier_bills WHERE id = $1`, id)
	if err != nil {
		return wrap("delete supplier bill", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

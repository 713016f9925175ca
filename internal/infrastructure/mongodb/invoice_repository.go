package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

type invoiceDoc struct {
	ID        string               `bson:"_id"`
	Cliente   string               `bson:"cliente"`
	Fecha     time.Time            `bson:"fecha"`
	StockID   string               `bson:"stockId,omitempty"`
	Concepto  string               `bson:"concepto"`
	Cantidad  int                  `bson:"cantidad"`
	Monto     primitive.Decimal128 `bson:"monto"`
	Detalle   string               `bson:"detalle"`
	CreadoPor string               `bson:"creadoPor"`
	Creado    time.Time            `bson:"creado"`
}

func (d *invoiceDoc) toEntity() *entity.Invoice {
	return &entity.Invoice{
		ID:          d.ID,
		Client:      d.Cliente,
		Date:        d.Fecha.UTC(),
		StockItemID: d.StockID,
		Concept:     d.Concepto,
		Quantity:    d.Cantidad,
		Amount:      fromDecimal128(d.Monto),
		Detail:      d.Detalle,
		CreatedBy:   d.CreadoPor,
		CreatedAt:   d.Creado,
	}
}

// InvoiceRepo colección "facturas".
type InvoiceRepo struct {
	coll *mongo.Collection
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(db *mongo.Database) *InvoiceRepo {
	return &InvoiceRepo{coll: db.Collection(CollInvoices)}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.coll.InsertOne(ctx, invoiceDoc{
		ID:        inv.ID,
		Cliente:   inv.Client,
		Fecha:     inv.Date,
		StockID:   inv.StockItemID,
		Concepto:  inv.Concept,
		Cantidad:  inv.Quantity,
		Monto:     toDecimal128(inv.Amount),
		Detalle:   inv.Detail,
		CreadoPor: inv.CreatedBy,
		Creado:    inv.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return wrap("insert invoice", err)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var d invoiceDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap("get invoice", err)
	}
	return d.toEntity(), nil
}

func (r *InvoiceRepo) List(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "creado", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list invoices", err)
	}
	defer cur.Close(ctx)
	var list []*entity.Invoice
	for cur.Next(ctx) {
		var d invoiceDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode invoice", err)
		}
		list = append(list, d.toEntity())
	}
	return list, wrap("list invoices", cur.Err())
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete invoice", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

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

var _ repository.SupplierBillRepository = (*SupplierBillRepo)(nil)

type supplierBillDoc struct {
	ID            string               `bson:"_id"`
	Proveedor     string               `bson:"proveedor"`
	CUIT          string               `bson:"cuit"`
	Concepto      string               `bson:"concepto"`
	Monto         primitive.Decimal128 `bson:"monto"`
	ArchivoClave  string               `bson:"archivoClave,omitempty"`
	ArchivoURL    string               `bson:"archivoUrl,omitempty"`
	ArchivoNombre string               `bson:"archivoNombre"`
	FechaCarga    time.Time            `bson:"fechaCarga"`
}

func (d *supplierBillDoc) toEntity() *entity.SupplierBill {
	return &entity.SupplierBill{
		ID:             d.ID,
		Supplier:       d.Proveedor,
		CUIT:           d.CUIT,
		Concept:        d.Concepto,
		Amount:         fromDecimal128(d.Monto),
		AttachmentKey:  d.ArchivoClave,
		AttachmentURL:  d.ArchivoURL,
		AttachmentName: d.ArchivoNombre,
		UploadedAt:     d.FechaCarga,
	}
}

// SupplierBillRepo colección "facturasProveedores".
type SupplierBillRepo struct {
	coll *mongo.Collection
}

// NewSupplierBillRepository construye el adaptador.
func NewSupplierBillRepository(db *mongo.Database) *SupplierBillRepo {
	return &SupplierBillRepo{coll: db.Collection(CollSupplierBills)}
}

func (r *SupplierBillRepo) Create(ctx context.Context, b *entity.SupplierBill) error {
	_, err := r.coll.InsertOne(ctx, supplierBillDoc{
		ID:            b.ID,
		Proveedor:     b.Supplier,
		CUIT:          b.CUIT,
		Concepto:      b.Concept,
		Monto:         toDecimal128(b.Amount),
		ArchivoClave:  b.AttachmentKey,
		ArchivoURL:    b.AttachmentURL,
		ArchivoNombre: b.AttachmentName,
		FechaCarga:    b.UploadedAt,
	})
	return wrap("insert supplier bill", err)
}

func (r *SupplierBillRepo) findOne(ctx context.Context, filter bson.M) (*entity.SupplierBill, error) {
	var d supplierBillDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap("find supplier bill", err)
	}
	return d.toEntity(), nil
}

func (r *SupplierBillRepo) GetByID(ctx context.Context, id string) (*entity.SupplierBill, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SupplierBillRepo) FindBySupplierAndCUIT(ctx context.Context, supplier, cuit string) (*entity.SupplierBill, error) {
	return r.findOne(ctx, bson.M{"proveedor": supplier, "cuit": cuit})
}

func (r *SupplierBillRepo) List(ctx context.Context, limit int) ([]*entity.SupplierBill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fechaCarga", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list supplier bills", err)
	}
	defer cur.Close(ctx)
	var list []*entity.SupplierBill
	for cur.Next(ctx) {
		var d supplierBillDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode supplier bill", err)
		}
		list = append(list, d.toEntity())
	}
	return list, wrap("list supplier bills", cur.Err())
}

func (r *SupplierBillRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete supplier bill", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

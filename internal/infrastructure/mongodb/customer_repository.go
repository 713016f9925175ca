package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// customerDoc conserva los nombres de campo de la colección existente.
type customerDoc struct {
	ID        string    `bson:"_id"`
	Nombre    string    `bson:"Nombre"`
	CUIT      string    `bson:"CUIT"`
	StatusIVA string    `bson:"Status IVA"`
	Activo    bool      `bson:"Activo"`
	Creado    time.Time `bson:"creado"`
}

func (d *customerDoc) toEntity() *entity.Customer {
	return &entity.Customer{
		ID:        d.ID,
		Name:      d.Nombre,
		CUIT:      d.CUIT,
		VATStatus: d.StatusIVA,
		Active:    d.Activo,
		CreatedAt: d.Creado,
	}
}

// CustomerRepo colección "Clientes".
type CustomerRepo struct {
	coll *mongo.Collection
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(db *mongo.Database) *CustomerRepo {
	return &CustomerRepo{coll: db.Collection(CollCustomers)}
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.coll.InsertOne(ctx, customerDoc{
		ID:        c.ID,
		Nombre:    c.Name,
		CUIT:      c.CUIT,
		StatusIVA: c.VATStatus,
		Activo:    c.Active,
		Creado:    c.CreatedAt,
	})
	return wrap("insert customer", err)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var d customerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap("get customer", err)
	}
	return d.toEntity(), nil
}

func (r *CustomerRepo) List(ctx context.Context, limit int) ([]*entity.Customer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "Nombre", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list customers", err)
	}
	defer cur.Close(ctx)
	var list []*entity.Customer
	for cur.Next(ctx) {
		var d customerDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode customer", err)
		}
		list = append(list, d.toEntity())
	}
	return list, wrap("list customers", cur.Err())
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete customer", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

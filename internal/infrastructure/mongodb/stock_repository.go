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

var _ repository.StockRepository = (*StockRepo)(nil)

type stockDoc struct {
	ID               string     `bson:"_id"`
	Nombre           string     `bson:"nombre"`
	NombreClave      string     `bson:"nombreClave"`
	Cantidad         int        `bson:"cantidad"`
	Unidad           string     `bson:"unidad"`
	FechaProduccion  *time.Time `bson:"fechaProduccion,omitempty"`
	FechaVencimiento *time.Time `bson:"fechaVencimiento,omitempty"`
	Creado           time.Time  `bson:"creado"`
	Actualizado      time.Time  `bson:"actualizado"`
}

func (d *stockDoc) toEntity() *entity.StockItem {
	return &entity.StockItem{
		ID:             d.ID,
		Name:           d.Nombre,
		NameKey:        d.NombreClave,
		Quantity:       d.Cantidad,
		Unit:           d.Unidad,
		ProductionDate: d.FechaProduccion,
		ExpiryDate:     d.FechaVencimiento,
		CreatedAt:      d.Creado,
		UpdatedAt:      d.Actualizado,
	}
}

// StockRepo colección "stock".
type StockRepo struct {
	coll *mongo.Collection
}

// NewStockRepository construye el adaptador.
func NewStockRepository(db *mongo.Database) *StockRepo {
	return &StockRepo{coll: db.Collection(CollStock)}
}

func (r *StockRepo) Create(ctx context.Context, it *entity.StockItem) error {
	_, err := r.coll.InsertOne(ctx, stockDoc{
		ID:               it.ID,
		Nombre:           it.Name,
		NombreClave:      it.NameKey,
		Cantidad:         it.Quantity,
		Unidad:           it.Unit,
		FechaProduccion:  it.ProductionDate,
		FechaVencimiento: it.ExpiryDate,
		Creado:           it.CreatedAt,
		Actualizado:      it.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return wrap("insert stock", err)
}

func (r *StockRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.StockItem, error) {
	var d stockDoc
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap("find stock", err)
	}
	return d.toEntity(), nil
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *StockRepo) FindByNameKey(ctx context.Context, key string) (*entity.StockItem, error) {
	return r.findOne(ctx, bson.M{"nombreClave": key},
		options.FindOne().SetSort(bson.D{{Key: "creado", Value: 1}, {Key: "_id", Value: 1}}))
}

func (r *StockRepo) List(ctx context.Context) ([]*entity.StockItem, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "nombreClave", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrap("list stock", err)
	}
	defer cur.Close(ctx)
	var list []*entity.StockItem
	for cur.Next(ctx) {
		var d stockDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode stock", err)
		}
		list = append(list, d.toEntity())
	}
	return list, wrap("list stock", cur.Err())
}

func (r *StockRepo) SetQuantity(ctx context.Context, id string, quantity int) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"cantidad": quantity, "actualizado": time.Now().UTC()}})
	if err != nil {
		return wrap("update stock", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementIfAvailable usa FindOneAndUpdate con filtro cantidad >= qty: verificación y
// descuento en una sola operación atómica sobre el documento.
func (r *StockRepo) DecrementIfAvailable(ctx context.Context, id string, qty int) (int, error) {
	var d stockDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "cantidad": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"cantidad": -qty},
			"$set": bson.M{"actualizado": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err == nil {
		return d.Cantidad, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, wrap("decrement stock", err)
	}
	item, gerr := r.GetByID(ctx, id)
	if gerr != nil {
		return 0, gerr
	}
	if item == nil {
		return 0, domain.ErrNotFound
	}
	return 0, &domain.InsufficientStockError{Product: item.Name, Available: item.Quantity, Requested: qty}
}

func (r *StockRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap("delete stock", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

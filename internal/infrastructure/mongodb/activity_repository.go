package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

type activityDoc struct {
	ID          string    `bson:"_id"`
	Tipo        string    `bson:"tipo"`
	Modulo      string    `bson:"modulo"`
	Descripcion string    `bson:"descripcion"`
	Usuario     string    `bson:"usuario"`
	Fecha       time.Time `bson:"fecha"`
}

// ActivityRepo colección "historial".
type ActivityRepo struct {
	coll *mongo.Collection
}

// NewActivityRepository construye el adaptador.
func NewActivityRepository(db *mongo.Database) *ActivityRepo {
	return &ActivityRepo{coll: db.Collection(CollActivity)}
}

// Create inserta la entrada; un _id repetido (reintento del outbox) no es error.
func (r *ActivityRepo) Create(ctx context.Context, e *entity.ActivityEntry) error {
	_, err := r.coll.InsertOne(ctx, activityDoc{
		ID:          e.ID,
		Tipo:        e.Kind,
		Modulo:      e.Module,
		Descripcion: e.Description,
		Usuario:     e.Actor,
		Fecha:       e.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return wrap("insert activity", err)
}

func (r *ActivityRepo) List(ctx context.Context, limit int) ([]*entity.ActivityEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list activity", err)
	}
	defer cur.Close(ctx)
	var list []*entity.ActivityEntry
	for cur.Next(ctx) {
		var d activityDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode activity", err)
		}
		list = append(list, &entity.ActivityEntry{
			ID:          d.ID,
			Kind:        d.Tipo,
			Module:      d.Modulo,
			Description: d.Descripcion,
			Actor:       d.Usuario,
			CreatedAt:   d.Fecha,
		})
	}
	return list, wrap("list activity", cur.Err())
}

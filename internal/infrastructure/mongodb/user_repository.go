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

var _ repository.UserRepository = (*UserRepo)(nil)

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Nombre       string    `bson:"nombre"`
	Rol          string    `bson:"rol"`
	HorasDia     float64   `bson:"horasDia"`
	HorasSemana  float64   `bson:"horasSemana"`
	HorasMes     float64   `bson:"horasMes"`
	HorasAnio    float64   `bson:"horasAño"`
	Creado       time.Time `bson:"creado"`
	Actualizado  time.Time `bson:"actualizado"`
}

// UserRepo colección "usuarios".
type UserRepo struct {
	coll *mongo.Collection
}

// NewUserRepository construye el adaptador.
func NewUserRepository(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(CollUsers)}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Nombre:       u.Name,
		Rol:          u.Role,
		Creado:       u.CreatedAt,
		Actualizado:  u.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return wrap("insert user", err)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, wrap("get user", err)
	}
	return d.toEntity(), nil
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Nombre,
		Role:         d.Rol,
		Hours: entity.WorkHours{
			Day:   d.HorasDia,
			Week:  d.HorasSemana,
			Month: d.HorasMes,
			Year:  d.HorasAnio,
		},
		CreatedAt: d.Creado,
		UpdatedAt: d.Actualizado,
	}
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer cur.Close(ctx)
	var list []*entity.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			return nil, wrap("decode user", err)
		}
		list = append(list, d.toEntity())
	}
	return list, wrap("list users", cur.Err())
}

func (r *UserRepo) SetHours(ctx context.Context, id string, h entity.WorkHours) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"horasDia":    h.Day,
		"horasSemana": h.Week,
		"horasMes":    h.Month,
		"horasAño":    h.Year,
		"actualizado": time.Now().UTC(),
	}})
	if err != nil {
		return wrap("update user hours", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

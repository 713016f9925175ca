// Package mongodb implementa los repositorios sobre MongoDB con las colecciones
// stock, facturas, facturasProveedores, historial, usuarios y Clientes.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// Nombres de colecciones.
const (
	CollStock         = "stock"
	CollInvoices      = "facturas"
	CollSupplierBills = "facturasProveedores"
	CollActivity      = "historial"
	CollUsers         = "usuarios"
	CollCustomers     = "Clientes"
)

// Connect abre el cliente y verifica la conexión.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes crea los índices usados por las búsquedas y los listados.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	idx := map[string][]mongo.IndexModel{
		CollStock: {
			{Keys: bson.D{{Key: "nombreClave", Value: 1}}},
		},
		CollInvoices: {
			{Keys: bson.D{{Key: "creado", Value: -1}}},
		},
		CollSupplierBills: {
			{Keys: bson.D{{Key: "proveedor", Value: 1}, {Key: "cuit", Value: 1}}},
			{Keys: bson.D{{Key: "fechaCarga", Value: -1}}},
		},
		CollActivity: {
			{Keys: bson.D{{Key: "fecha", Value: -1}}},
		},
		CollUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollCustomers: {
			{Keys: bson.D{{Key: "Nombre", Value: 1}}},
		},
	}
	for coll, models := range idx {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", coll, err)
		}
	}
	return nil
}

func wrap(op string, err error) error {
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	return domain.Transport(op, err)
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

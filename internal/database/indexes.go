package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type indexSpec struct {
	collection string
	field      string
	name       string
	unique     bool
}

var indexSpecs = []indexSpec{
	{collection: "products", field: "id", name: "id_unique", unique: true},
	{collection: "products", field: "category", name: "category_index"},
	{collection: "categories", field: "id", name: "id_unique", unique: true},
	{collection: "users", field: "email", name: "email_unique", unique: true},
	{collection: "users", field: "id", name: "id_unique", unique: true},
	{collection: "carts", field: "userId", name: "userId_unique", unique: true},
	{collection: "orders", field: "id", name: "id_unique", unique: true},
	{collection: "orders", field: "userId", name: "userId_index"},
	{collection: "payments", field: "razorpayOrderId", name: "razorpayOrderId_unique", unique: true},
	{collection: "reviews", field: "productId", name: "productId_index"},
}

// EnsureIndexes creates every index the stores depend on. The unique index on
// payments.razorpayOrderId and carts.userId are load-bearing: reconciliation
// and the cart upsert assume them.
func EnsureIndexes(db *mongo.Database, logger *zap.Logger) error {
	var errs []error
	for _, spec := range indexSpecs {
		if err := ensureIndex(db, spec); err != nil {
			logger.Warn("[INDEX] [WARN] index creation failed",
				zap.String("collection", spec.collection),
				zap.String("index", spec.name),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		logger.Info("[INDEX] [INFO] index ensured",
			zap.String("collection", spec.collection),
			zap.String("index", spec.name),
		)
	}
	return errors.Join(errs...)
}

func ensureIndex(db *mongo.Database, spec indexSpec) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Index().SetName(spec.name)
	if spec.unique {
		opts.SetUnique(true)
	}
	_, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: spec.field, Value: 1}},
		Options: opts,
	})
	return err
}

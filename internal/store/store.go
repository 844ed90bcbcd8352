// Package store maps MongoDB documents to typed records. Every record read
// back is decoded into its struct and validated; anything that does not fit
// is reported as a MalformedRecordError instead of leaking half-filled
// structs into business logic.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	cartsCollection      = "carts"
	ordersCollection     = "orders"
	paymentsCollection   = "payments"
	usersCollection      = "users"
	reviewsCollection    = "reviews"

	opTimeout = 5 * time.Second
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means a conditional write found the record changed
	// since it was read.
	ErrVersionConflict = errors.New("record modified concurrently")
	ErrDuplicate       = errors.New("duplicate record")
)

type MalformedRecordError struct {
	Collection string
	Err        error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: %v", e.Collection, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

var validate = validator.New()

// decodeRaw unmarshals a raw document and checks its validate tags.
func decodeRaw(collection string, raw bson.Raw, out interface{}) error {
	if err := bson.Unmarshal(raw, out); err != nil {
		return &MalformedRecordError{Collection: collection, Err: err}
	}
	if err := validate.Struct(out); err != nil {
		return &MalformedRecordError{Collection: collection, Err: err}
	}
	return nil
}

func decodeSingle(collection string, res *mongo.SingleResult, out interface{}) error {
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("find %s: %w", collection, err)
	}
	raw, err := res.Raw()
	if err != nil {
		return &MalformedRecordError{Collection: collection, Err: err}
	}
	return decodeRaw(collection, raw, out)
}

// decodeAll drains and closes a cursor, handing each raw document to decode.
func decodeAll(ctx context.Context, collection string, cursor *mongo.Cursor, decode func(raw bson.Raw) error) error {
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		if err := decode(cursor.Current); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", collection, err)
	}
	return nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}

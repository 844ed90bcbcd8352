package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"constructo/internal/models"
)

// CartStore keeps one cart document per user. Every mutation bumps the
// document version so checkout can clear it with a compare-and-swap.
type CartStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{db: db, now: time.Now}
}

func (s *CartStore) collection() *mongo.Collection {
	return s.db.Collection(cartsCollection)
}

// GetCart returns ErrNotFound when the user never had a cart.
func (s *CartStore) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var cart models.Cart
	res := s.collection().FindOne(ctx, bson.M{"userId": userID})
	if err := decodeSingle(cartsCollection, res, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// addItemAttempts covers one lost race on cart creation: a concurrent first
// add wins the upsert and the retry then takes the increment or push path.
const addItemAttempts = 2

// AddItem increments the quantity of an existing line or appends a new one,
// creating the cart on first use.
func (s *CartStore) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := s.addItem(ctx, userID, productID, quantity)
		if !errors.Is(err, ErrVersionConflict) || attempt == addItemAttempts {
			return err
		}
	}
}

func (s *CartStore) addItem(ctx context.Context, userID, productID string, quantity int) error {
	now := s.now()
	res, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{
			"$inc": bson.M{"items.$.quantity": quantity, "version": 1},
			"$set": bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = s.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
		bson.M{
			"$push":        bson.M{"items": models.CartItem{ProductID: productID, Quantity: quantity}},
			"$inc":         bson.M{"version": 1},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"id": uuid.NewString()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrVersionConflict
		}
		return fmt.Errorf("push cart item: %w", err)
	}
	return nil
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
func (s *CartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{
			"$set": bson.M{"items.$.quantity": quantity, "updatedAt": s.now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (s *CartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": s.now()},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// Reset empties the cart unconditionally. It backs the user-facing clear
// action, not checkout.
func (s *CartStore) Reset(ctx context.Context, userID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set": bson.M{"items": bson.A{}, "updatedAt": s.now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("reset cart: %w", err)
	}
	return nil
}

// ClearCart empties the cart only if it is still at version. A changed cart
// yields ErrVersionConflict.
func (s *CartStore) ClearCart(ctx context.Context, userID string, version int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "version": version},
		bson.M{
			"$set": bson.M{"items": bson.A{}, "updatedAt": s.now()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"constructo/internal/models"
)

const maxOrdersListed = 100

type OrderStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{db: db, now: time.Now}
}

func (s *OrderStore) collection() *mongo.Collection {
	return s.db.Collection(ordersCollection)
}

func (s *OrderStore) InsertOrder(ctx context.Context, order *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.collection().InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// FindOrder looks an order up by id scoped to its owner.
func (s *OrderStore) FindOrder(ctx context.Context, id, userID string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"id": id, "userId": userID})
}

// FindOrderByID is the unscoped lookup used by back-office routes.
func (s *OrderStore) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var order models.Order
	if err := decodeSingle(ordersCollection, s.collection().FindOne(ctx, filter), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListOrders(ctx context.Context, userID string, limit int64) ([]models.Order, error) {
	if limit <= 0 || limit > maxOrdersListed {
		limit = maxOrdersListed
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.collection().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	orders := make([]models.Order, 0)
	err = decodeAll(ctx, ordersCollection, cursor, func(raw bson.Raw) error {
		var o models.Order
		if err := decodeRaw(ordersCollection, raw, &o); err != nil {
			return err
		}
		orders = append(orders, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ConfirmOrder moves a pending order of userID to confirmed and links the
// gateway payment. It reports false when no pending order matched.
func (s *OrderStore) ConfirmOrder(ctx context.Context, id, userID, paymentRef string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.collection().UpdateOne(ctx,
		bson.M{"id": id, "userId": userID, "status": models.OrderStatusPending},
		bson.M{"$set": bson.M{
			"status":            models.OrderStatusConfirmed,
			"paymentMethod":     models.PaymentMethodRazorpay,
			"razorpayPaymentId": paymentRef,
			"updatedAt":         s.now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("confirm order: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// CancelOrder cancels a pending or confirmed order of userID. It reports false
// when nothing in a cancellable state matched.
func (s *OrderStore) CancelOrder(ctx context.Context, id, userID, reason string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.collection().UpdateOne(ctx,
		bson.M{
			"id":     id,
			"userId": userID,
			"status": bson.M{"$in": bson.A{models.OrderStatusPending, models.OrderStatusConfirmed}},
		},
		bson.M{"$set": bson.M{
			"status":       models.OrderStatusCancelled,
			"cancelReason": reason,
			"updatedAt":    s.now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// UpdateStatus moves an order from one status to another. A record that is no
// longer in from yields ErrVersionConflict.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.collection().UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": s.now()}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"constructo/internal/models"
)

type PaymentStore struct {
	db *mongo.Database
}

func NewPaymentStore(db *mongo.Database) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) collection() *mongo.Collection {
	return s.db.Collection(paymentsCollection)
}

func (s *PaymentStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.collection().InsertOne(ctx, payment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *PaymentStore) FindPaymentByProviderRef(ctx context.Context, ref string) (*models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var payment models.Payment
	res := s.collection().FindOne(ctx, bson.M{"razorpayOrderId": ref})
	if err := decodeSingle(paymentsCollection, res, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkPaid performs the created -> paid transition. It reports false when the
// record was not in created state, so exactly one caller wins per reference.
func (s *PaymentStore) MarkPaid(ctx context.Context, ref, paymentID, signature string, paidAt time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{
		"status":            models.PaymentStatusPaid,
		"razorpayPaymentId": paymentID,
		"paidAt":            paidAt,
		"updatedAt":         paidAt,
	}
	if signature != "" {
		set["razorpaySignature"] = signature
	}

	res, err := s.collection().UpdateOne(ctx,
		bson.M{"razorpayOrderId": ref, "status": models.PaymentStatusCreated},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("mark payment paid: %w", err)
	}
	return res.MatchedCount > 0, nil
}

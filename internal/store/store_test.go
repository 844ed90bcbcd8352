package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"constructo/internal/models"
)

func TestDecodeRawAcceptsWellFormedOrder(t *testing.T) {
	raw, err := bson.Marshal(models.Order{
		ID:            "o-1",
		UserID:        "u-1",
		Items:         []models.OrderItem{{ProductID: "p-1", ProductName: "Drill", Price: 8999, Quantity: 1}},
		PaymentMethod: models.PaymentMethodCOD,
		ShippingAddress: models.ShippingAddress{
			FullName: "A", Phone: "1", AddressLine1: "x", City: "c", State: "s", Pincode: "560001",
		},
		Subtotal:  8999,
		Total:     8999,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, decodeRaw(ordersCollection, raw, &order))
	assert.Equal(t, "o-1", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestDecodeRawRejectsMissingFields(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"id": "o-1", "status": "pending"})
	require.NoError(t, err)

	var order models.Order
	err = decodeRaw(ordersCollection, raw, &order)

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Equal(t, ordersCollection, malformed.Collection)
}

func TestDecodeRawRejectsUnknownStatus(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"id": "pay-1", "userId": "u-1", "razorpayOrderId": "order_X",
		"amount": int64(100), "currency": "INR", "status": "refunded",
	})
	require.NoError(t, err)

	var payment models.Payment
	var malformed *MalformedRecordError
	assert.True(t, errors.As(decodeRaw(paymentsCollection, raw, &payment), &malformed))
}

func TestDecodeRawRejectsWrongFieldType(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"userId": "u-1", "items": "not-a-list", "version": int64(1)})
	require.NoError(t, err)

	var cart models.Cart
	var malformed *MalformedRecordError
	assert.True(t, errors.As(decodeRaw(cartsCollection, raw, &cart), &malformed))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.5, roundRating(4.5))
	assert.Equal(t, 4.3, roundRating(13.0/3))
	assert.Equal(t, 3.7, roundRating(11.0/3))
	assert.Equal(t, 4.0, roundRating(3.95))
	assert.Equal(t, 5.0, roundRating(5))
}

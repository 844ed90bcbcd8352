package models

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment mirrors one gateway order. RazorpayOrderID is unique and is the key
// used to reconcile callbacks and webhooks.
type Payment struct {
	ID                string        `bson:"id" json:"id" validate:"required"`
	UserID            string        `bson:"userId" json:"user_id" validate:"required"`
	OrderID           string        `bson:"orderId,omitempty" json:"order_id,omitempty"`
	RazorpayOrderID   string        `bson:"razorpayOrderId" json:"razorpay_order_id" validate:"required"`
	Amount            int64         `bson:"amount" json:"amount" validate:"gt=0"`
	Currency          string        `bson:"currency" json:"currency" validate:"required"`
	Status            PaymentStatus `bson:"status" json:"status" validate:"required,oneof=created paid"`
	RazorpayPaymentID string        `bson:"razorpayPaymentId,omitempty" json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string        `bson:"razorpaySignature,omitempty" json:"-"`
	PaidAt            *time.Time    `bson:"paidAt,omitempty" json:"paid_at,omitempty"`
	CreatedAt         time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updated_at"`
}

package models

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	PaymentMethodCOD      = "cod"
	PaymentMethodRazorpay = "razorpay"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a line item priced at checkout time. It never follows later
// catalog changes.
type OrderItem struct {
	ProductID   string  `bson:"productId" json:"product_id" validate:"required"`
	ProductName string  `bson:"productName" json:"product_name" validate:"required"`
	Price       float64 `bson:"price" json:"price" validate:"gte=0"`
	Quantity    int     `bson:"quantity" json:"quantity" validate:"min=1"`
}

type ShippingAddress struct {
	FullName     string `bson:"fullName" json:"full_name" binding:"required" validate:"required"`
	Phone        string `bson:"phone" json:"phone" binding:"required" validate:"required"`
	AddressLine1 string `bson:"addressLine1" json:"address_line1" binding:"required" validate:"required"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"address_line2,omitempty"`
	City         string `bson:"city" json:"city" binding:"required" validate:"required"`
	State        string `bson:"state" json:"state" binding:"required" validate:"required"`
	Pincode      string `bson:"pincode" json:"pincode" binding:"required" validate:"required"`
}

// Order is immutable in items and pricing once inserted; only status and the
// payment linkage fields change afterwards.
type Order struct {
	ID                string          `bson:"id" json:"id" validate:"required"`
	UserID            string          `bson:"userId" json:"user_id" validate:"required"`
	Items             []OrderItem     `bson:"items" json:"items" validate:"dive"`
	ShippingAddress   ShippingAddress `bson:"shippingAddress" json:"shipping_address"`
	PaymentMethod     string          `bson:"paymentMethod" json:"payment_method" validate:"required"`
	Subtotal          float64         `bson:"subtotal" json:"subtotal" validate:"gte=0"`
	ShippingFee       float64         `bson:"shippingFee" json:"shipping_fee" validate:"gte=0"`
	Total             float64         `bson:"total" json:"total" validate:"gte=0"`
	Status            OrderStatus     `bson:"status" json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
	RazorpayPaymentID string          `bson:"razorpayPaymentId,omitempty" json:"razorpay_payment_id,omitempty"`
	CancelReason      string          `bson:"cancelReason,omitempty" json:"cancel_reason,omitempty"`
	IdempotencyKey    string          `bson:"idempotencyKey,omitempty" json:"-"`
	CreatedAt         time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"updated_at"`
}

// CanMoveTo applies the status machine plus the payment rule: an online-paid
// order only becomes confirmed through payment verification, and cannot ship
// before that.
func (o *Order) CanMoveTo(next OrderStatus) bool {
	if !o.Status.CanTransitionTo(next) {
		return false
	}
	if o.PaymentMethod == PaymentMethodRazorpay && o.Status == OrderStatusPending {
		return next == OrderStatusCancelled
	}
	return true
}

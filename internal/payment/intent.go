package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"constructo/internal/events"
	"constructo/internal/logging"
	"constructo/internal/metrics"
	"constructo/internal/models"
	"constructo/internal/store"
	"constructo/internal/tracing"
)

type PaymentStore interface {
	InsertPayment(ctx context.Context, payment *models.Payment) error
	FindPaymentByProviderRef(ctx context.Context, ref string) (*models.Payment, error)
	MarkPaid(ctx context.Context, ref, paymentID, signature string, paidAt time.Time) (bool, error)
}

type OrderStore interface {
	FindOrder(ctx context.Context, id, userID string) (*models.Order, error)
	ConfirmOrder(ctx context.Context, id, userID, paymentRef string) (bool, error)
}

// Intent is what the client needs to open the provider checkout.
type Intent struct {
	ProviderOrderID string `json:"razorpay_order_id"`
	AmountMinor     int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

type IntentService struct {
	gateway   Gateway
	payments  PaymentStore
	orders    OrderStore
	publisher events.Publisher
	logger    *zap.Logger
	keyID     string
	currency  string
	now       func() time.Time
}

func NewIntentService(gateway Gateway, payments PaymentStore, orders OrderStore, publisher events.Publisher, logger *zap.Logger, keyID, currency string) *IntentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &IntentService{
		gateway:   gateway,
		payments:  payments,
		orders:    orders,
		publisher: publisher,
		logger:    logging.OrNop(logger),
		keyID:     keyID,
		currency:  currency,
		now:       time.Now,
	}
}

// CreateIntent opens a provider order for amount and records it as a created
// payment. When orderID is set it must name a pending order of userID; the
// link lets webhooks confirm the order without the client.
func (s *IntentService) CreateIntent(ctx context.Context, userID string, amount float64, orderID string) (*Intent, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.CreateIntent")
	defer span.End()

	minor, err := ToMinorUnits(amount)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("payment.amount_minor", minor))

	if orderID != "" {
		order, err := s.orders.FindOrder(ctx, orderID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load order: %w", err)
		}
		if order.Status != models.OrderStatusPending {
			return nil, ErrOrderNotFound
		}
	}

	req := GatewayOrderRequest{
		AmountMinor: minor,
		Currency:    s.currency,
		Receipt:     receipt(orderID),
		Notes:       map[string]string{"user_id": userID},
	}
	if orderID != "" {
		req.Notes["order_id"] = orderID
	}

	timer := prometheus.NewTimer(metrics.GatewayLatency)
	gwOrder, err := s.gateway.CreateOrder(ctx, req)
	timer.ObserveDuration()
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues("gateway_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway error")
		s.logger.Error("[PAYMENT] [ERROR] gateway order creation failed",
			zap.String("user_id", userID),
			zap.Int64("amount", minor),
			zap.Error(err),
		)
		return nil, &PaymentIntentError{Message: err.Error(), Err: err}
	}

	currency := gwOrder.Currency
	if currency == "" {
		currency = s.currency
	}
	now := s.now().UTC()
	record := &models.Payment{
		ID:              uuid.NewString(),
		UserID:          userID,
		OrderID:         orderID,
		RazorpayOrderID: gwOrder.ID,
		Amount:          minor,
		Currency:        currency,
		Status:          models.PaymentStatusCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.payments.InsertPayment(ctx, record); err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues("store_error").Inc()
		s.logger.Error("[PAYMENT] [ERROR] provider order created but not recorded",
			zap.String("razorpay_order_id", gwOrder.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("record payment: %w", err)
	}

	metrics.PaymentIntentsTotal.WithLabelValues("created").Inc()
	s.logger.Info("[PAYMENT] [INFO] payment intent created",
		zap.String("razorpay_order_id", gwOrder.ID),
		zap.String("user_id", userID),
		zap.Int64("amount", minor),
	)
	if err := s.publisher.Publish(ctx, events.New(events.TypePaymentIntentCreated, gwOrder.ID, map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
		"amount":   minor,
	})); err != nil {
		s.logger.Warn("[PAYMENT] [WARN] event publish failed", zap.Error(err))
	}

	return &Intent{
		ProviderOrderID: gwOrder.ID,
		AmountMinor:     minor,
		Currency:        currency,
		KeyID:           s.keyID,
	}, nil
}

// KeyID is the public key the client embeds in the checkout widget.
func (s *IntentService) KeyID() string {
	return s.keyID
}

// receipt must stay within the provider's 40 character limit.
func receipt(orderID string) string {
	if orderID == "" {
		return "rcpt_" + uuid.NewString()[:8]
	}
	r := "order_" + orderID
	if len(r) > 40 {
		r = r[:40]
	}
	return r
}

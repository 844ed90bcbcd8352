package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"constructo/internal/events"
	"constructo/internal/logging"
	"constructo/internal/metrics"
	"constructo/internal/models"
	"constructo/internal/store"
	"constructo/internal/tracing"
)

const (
	sourceCheckout = "checkout"
	sourceWebhook  = "webhook"

	webhookPaymentCaptured = "payment.captured"
	webhookOrderPaid       = "order.paid"
)

var ErrMalformedWebhook = errors.New("malformed webhook payload")

type VerifyInput struct {
	ProviderOrderRef   string
	ProviderPaymentRef string
	Signature          string
	OrderID            string
	UserID             string
}

type VerifyResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type WebhookResult struct {
	Event   string
	Handled bool
	// Reconciliation is set when the payment was recorded but its order could
	// not be confirmed.
	Reconciliation string
}

// Reconciler settles payments reported by the client checkout callback or by
// provider webhooks, and confirms the order they pay for.
type Reconciler struct {
	payments      PaymentStore
	orders        OrderStore
	signer        *Signer
	webhookSigner *Signer
	publisher     events.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewReconciler(payments PaymentStore, orders OrderStore, keySecret, webhookSecret string, publisher events.Publisher, logger *zap.Logger) *Reconciler {
	logger = logging.OrNop(logger)
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Reconciler{
		payments:      payments,
		orders:        orders,
		signer:        NewSigner(keySecret),
		webhookSigner: NewSigner(webhookSecret),
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Verify checks the checkout signature and settles the payment. Nothing is
// written unless the signature matches, the payment belongs to the caller and
// the order named by the caller is the one the payment was created for.
// Calling it again with the same references is a no-op that succeeds.
func (r *Reconciler) Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.Verify")
	defer span.End()
	span.SetAttributes(attribute.String("payment.provider_order_ref", in.ProviderOrderRef))

	if !r.signer.Verify(in.ProviderOrderRef, in.ProviderPaymentRef, in.Signature) {
		metrics.PaymentSignatureFailuresTotal.WithLabelValues(sourceCheckout).Inc()
		r.logger.Warn("[SECURITY] [WARN] payment signature mismatch",
			zap.String("razorpay_order_id", in.ProviderOrderRef),
			zap.String("razorpay_payment_id", in.ProviderPaymentRef),
			zap.String("user_id", in.UserID),
		)
		return nil, ErrInvalidSignature
	}

	payment, err := r.findPayment(ctx, in.ProviderOrderRef)
	if err != nil {
		return nil, err
	}
	if payment.UserID != in.UserID {
		r.logger.Warn("[SECURITY] [WARN] payment verified by non-owner",
			zap.String("razorpay_order_id", in.ProviderOrderRef),
			zap.String("user_id", in.UserID),
		)
		return nil, ErrPaymentOwnership
	}

	orderID := payment.OrderID
	if orderID == "" {
		orderID = in.OrderID
	} else if in.OrderID != "" && in.OrderID != orderID {
		r.logger.Warn("[SECURITY] [WARN] payment verified against another order",
			zap.String("razorpay_order_id", in.ProviderOrderRef),
			zap.String("linked_order_id", orderID),
			zap.String("requested_order_id", in.OrderID),
			zap.String("user_id", in.UserID),
		)
		return nil, ErrPaymentOrderMismatch
	}
	if err := r.settle(ctx, payment, in.ProviderPaymentRef, in.Signature, orderID, sourceCheckout); err != nil {
		return nil, err
	}
	return &VerifyResult{Message: "Payment verified successfully", Status: string(models.PaymentStatusPaid)}, nil
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleWebhook authenticates a provider webhook over its raw body and settles
// capture events. Other events are acknowledged and ignored.
func (r *Reconciler) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.HandleWebhook")
	defer span.End()

	if !r.webhookSigner.VerifyPayload(body, signature) {
		metrics.PaymentSignatureFailuresTotal.WithLabelValues(sourceWebhook).Inc()
		r.logger.Warn("[SECURITY] [WARN] webhook signature mismatch", zap.Int("body_bytes", len(body)))
		return nil, ErrInvalidSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	span.SetAttributes(attribute.String("webhook.event", env.Event))

	result := &WebhookResult{Event: env.Event}
	if env.Event != webhookPaymentCaptured && env.Event != webhookOrderPaid {
		r.logger.Info("[WEBHOOK] [INFO] event ignored", zap.String("event", env.Event))
		return result, nil
	}

	orderRef := env.Payload.Payment.Entity.OrderID
	if orderRef == "" {
		orderRef = env.Payload.Order.Entity.ID
	}
	paymentRef := env.Payload.Payment.Entity.ID
	if orderRef == "" || paymentRef == "" {
		return nil, fmt.Errorf("%w: missing order or payment id", ErrMalformedWebhook)
	}

	payment, err := r.findPayment(ctx, orderRef)
	if errors.Is(err, ErrPaymentNotFound) {
		r.logger.Warn("[WEBHOOK] [WARN] webhook for unknown payment",
			zap.String("event", env.Event),
			zap.String("razorpay_order_id", orderRef),
		)
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	err = r.settle(ctx, payment, paymentRef, "", payment.OrderID, sourceWebhook)
	var linkErr *OrderLinkageError
	if errors.As(err, &linkErr) {
		result.Handled = true
		result.Reconciliation = linkErr.Error()
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Handled = true
	return result, nil
}

func (r *Reconciler) findPayment(ctx context.Context, ref string) (*models.Payment, error) {
	payment, err := r.payments.FindPaymentByProviderRef(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return payment, nil
}

// settle moves the payment to paid and then confirms the order. Only the
// caller whose conditional update matched counts as the first settlement;
// later callers with the same payment id pass through as reconfirmations.
func (r *Reconciler) settle(ctx context.Context, payment *models.Payment, paymentRef, signature, orderID, source string) error {
	ref := payment.RazorpayOrderID

	first, err := r.payments.MarkPaid(ctx, ref, paymentRef, signature, r.now().UTC())
	if err != nil {
		return fmt.Errorf("mark payment paid: %w", err)
	}
	if first {
		metrics.PaymentsPaidTotal.WithLabelValues(source).Inc()
		r.logger.Info("[PAYMENT] [INFO] payment marked paid",
			zap.String("razorpay_order_id", ref),
			zap.String("razorpay_payment_id", paymentRef),
			zap.String("source", source),
		)
		if err := r.publisher.Publish(ctx, events.New(events.TypePaymentVerified, ref, map[string]interface{}{
			"user_id":    payment.UserID,
			"order_id":   orderID,
			"payment_id": paymentRef,
			"amount":     payment.Amount,
		})); err != nil {
			r.logger.Warn("[PAYMENT] [WARN] event publish failed", zap.Error(err))
		}
	} else {
		current, err := r.findPayment(ctx, ref)
		if err != nil {
			return err
		}
		if current.Status != models.PaymentStatusPaid {
			return fmt.Errorf("payment %s in unexpected status %q", ref, current.Status)
		}
		if current.RazorpayPaymentID != paymentRef {
			r.logger.Warn("[PAYMENT] [WARN] payment already settled with another payment id",
				zap.String("razorpay_order_id", ref),
				zap.String("razorpay_payment_id", paymentRef),
			)
			return ErrPaymentConflict
		}
	}

	return r.confirmOrder(ctx, payment.UserID, orderID, paymentRef, ref)
}

func (r *Reconciler) confirmOrder(ctx context.Context, userID, orderID, paymentRef, ref string) error {
	if orderID == "" {
		return r.linkageFailure(ref, orderID, "no order linked to payment")
	}

	ok, err := r.orders.ConfirmOrder(ctx, orderID, userID, paymentRef)
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}
	if ok {
		return nil
	}

	order, err := r.orders.FindOrder(ctx, orderID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return r.linkageFailure(ref, orderID, "order not found for user")
	}
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order.Status == models.OrderStatusConfirmed && order.RazorpayPaymentID == paymentRef {
		return nil
	}
	return r.linkageFailure(ref, orderID, fmt.Sprintf("order is %s", order.Status))
}

func (r *Reconciler) linkageFailure(ref, orderID, reason string) error {
	metrics.PaymentLinkageFailuresTotal.Inc()
	r.logger.Error("[PAYMENT] [ERROR] paid payment not linked to an order",
		zap.String("razorpay_order_id", ref),
		zap.String("order_id", orderID),
		zap.String("reason", reason),
	)
	return &OrderLinkageError{ProviderOrderRef: ref, OrderID: orderID, Reason: reason}
}

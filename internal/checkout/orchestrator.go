package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"constructo/internal/events"
	"constructo/internal/idempotency"
	"constructo/internal/logging"
	"constructo/internal/metrics"
	"constructo/internal/models"
	"constructo/internal/store"
	"constructo/internal/tracing"
)

const (
	defaultClearAttempts = 3
	defaultClearBackoff  = 100 * time.Millisecond
	compensationTimeout  = 5 * time.Second

	ReasonCartModified        = "cart_modified"
	ReasonCancelledByCustomer = "cancelled_by_customer"
)

type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string, version int64) error
}

type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id, userID string) (*models.Order, error)
	FindOrderByID(ctx context.Context, id string) (*models.Order, error)
	CancelOrder(ctx context.Context, id, userID, reason string) (bool, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) error
}

// IdempotencyKeeper is satisfied by *idempotency.Keeper.
type IdempotencyKeeper interface {
	Reserve(ctx context.Context, scope, key string) (string, error)
	Complete(ctx context.Context, scope, key, orderID string) error
	Release(ctx context.Context, scope, key string) error
}

type CreateOrderInput struct {
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	IdempotencyKey  string
}

type Orchestrator struct {
	carts     CartStore
	orders    OrderStore
	builder   *Builder
	keys      IdempotencyKeeper
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	clearAttempts int
	clearBackoff  time.Duration
}

type Option func(*Orchestrator)

// WithIdempotencyKeeper enables Idempotency-Key handling. Without it the key
// is ignored.
func WithIdempotencyKeeper(k IdempotencyKeeper) Option {
	return func(o *Orchestrator) { o.keys = k }
}

// WithClearRetry overrides how often and how patiently a failed cart clear is
// retried before the order is compensated.
func WithClearRetry(attempts int, backoff time.Duration) Option {
	return func(o *Orchestrator) {
		if attempts > 0 {
			o.clearAttempts = attempts
		}
		o.clearBackoff = backoff
	}
}

func NewOrchestrator(carts CartStore, orders OrderStore, builder *Builder, publisher events.Publisher, logger *zap.Logger, opts ...Option) *Orchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	o := &Orchestrator{
		carts:         carts,
		orders:        orders,
		builder:       builder,
		publisher:     publisher,
		logger:        logging.OrNop(logger),
		now:           time.Now,
		clearAttempts: defaultClearAttempts,
		clearBackoff:  defaultClearBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateOrder turns the user's cart into a pending order and empties the cart.
// The cart is cleared only after the order is stored, and only if it has not
// changed since it was read; otherwise the new order is cancelled and
// ErrConcurrentModification is returned.
func (o *Orchestrator) CreateOrder(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "checkout.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	useKey := in.IdempotencyKey != "" && o.keys != nil
	if in.IdempotencyKey != "" && o.keys == nil {
		o.logger.Warn("[CHECKOUT] [WARN] idempotency key ignored, no keeper configured",
			zap.String("user_id", userID))
	}

	if useKey {
		existingID, err := o.keys.Reserve(ctx, userID, in.IdempotencyKey)
		if errors.Is(err, idempotency.ErrInProgress) {
			return nil, ErrRequestInProgress
		}
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if existingID != "" {
			o.logger.Info("[CHECKOUT] [INFO] idempotent replay",
				zap.String("user_id", userID),
				zap.String("order_id", existingID))
			return o.orders.FindOrder(ctx, existingID, userID)
		}
	}

	order, err := o.placeOrder(ctx, userID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.CheckoutFailedTotal.WithLabelValues(failureReason(err)).Inc()
		if useKey {
			if relErr := o.keys.Release(context.WithoutCancel(ctx), userID, in.IdempotencyKey); relErr != nil {
				o.logger.Error("[CHECKOUT] [ERROR] release idempotency key", zap.Error(relErr))
			}
		}
		return nil, err
	}

	if useKey {
		if err := o.keys.Complete(ctx, userID, in.IdempotencyKey, order.ID); err != nil {
			o.logger.Error("[CHECKOUT] [ERROR] complete idempotency key",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	return order, nil
}

func (o *Orchestrator) placeOrder(ctx context.Context, userID string, in CreateOrderInput) (*models.Order, error) {
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCOD
	}
	if method != models.PaymentMethodCOD && method != models.PaymentMethodRazorpay {
		return nil, ErrInvalidPaymentMethod
	}

	cart, err := o.carts.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	draft, err := o.builder.Build(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	now := o.now().UTC()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           draft.Items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   method,
		Subtotal:        draft.Subtotal,
		ShippingFee:     draft.ShippingFee,
		Total:           draft.Total,
		Status:          models.OrderStatusPending,
		IdempotencyKey:  in.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := o.orders.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := o.clearCart(context.WithoutCancel(ctx), userID, cart.Version); err != nil {
		o.compensate(ctx, order)
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	o.logger.Info("[CHECKOUT] [INFO] order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(order.Items)),
		zap.Strings("skipped", draft.Skipped),
		zap.Float64("total", order.Total),
	)
	o.publish(ctx, events.New(events.TypeOrderCreated, order.ID, map[string]interface{}{
		"user_id":        userID,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
	}))
	return order, nil
}

// clearCart retries transient failures with linear backoff. A version
// conflict is returned immediately. Callers detach ctx from the request once
// the order is persisted.
func (o *Orchestrator) clearCart(ctx context.Context, userID string, version int64) error {
	var err error
	for attempt := 1; attempt <= o.clearAttempts; attempt++ {
		err = o.carts.ClearCart(ctx, userID, version)
		if err == nil || errors.Is(err, store.ErrVersionConflict) {
			return err
		}
		o.logger.Warn("[CHECKOUT] [WARN] cart clear failed",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == o.clearAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("clear cart: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * o.clearBackoff):
		}
	}
	return fmt.Errorf("clear cart after %d attempts: %w", o.clearAttempts, err)
}

// compensate cancels an order whose cart could not be cleared. It runs even
// if the request context is already cancelled.
func (o *Orchestrator) compensate(ctx context.Context, order *models.Order) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	ok, err := o.orders.CancelOrder(cctx, order.ID, order.UserID, ReasonCartModified)
	if err != nil || !ok {
		o.logger.Error("[CHECKOUT] [ERROR] compensation failed, order left pending",
			zap.String("order_id", order.ID),
			zap.Bool("matched", ok),
			zap.Error(err),
		)
		return
	}
	metrics.OrdersCancelledTotal.WithLabelValues(ReasonCartModified).Inc()
	o.logger.Warn("[CHECKOUT] [WARN] order cancelled, cart changed during checkout",
		zap.String("order_id", order.ID))
	o.publish(cctx, events.New(events.TypeOrderCancelled, order.ID, map[string]interface{}{
		"user_id": order.UserID,
		"reason":  ReasonCartModified,
	}))
}

// CancelOrder lets a customer cancel their own pending or confirmed order.
func (o *Orchestrator) CancelOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := o.orders.FindOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		return nil, models.ErrInvalidTransition
	}

	ok, err := o.orders.CancelOrder(ctx, orderID, userID, ReasonCancelledByCustomer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInvalidTransition
	}

	metrics.OrdersCancelledTotal.WithLabelValues(ReasonCancelledByCustomer).Inc()
	o.publish(ctx, events.New(events.TypeOrderCancelled, orderID, map[string]interface{}{
		"user_id": userID,
		"reason":  ReasonCancelledByCustomer,
	}))

	order.Status = models.OrderStatusCancelled
	order.CancelReason = ReasonCancelledByCustomer
	order.UpdatedAt = o.now().UTC()
	return order, nil
}

// AdvanceStatus is the back-office status change. It follows the order state
// machine and refuses to confirm or ship an online-paid order that has not
// been paid.
func (o *Orchestrator) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, models.ErrInvalidTransition
	}
	order, err := o.orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMoveTo(next) {
		return nil, models.ErrInvalidTransition
	}

	prev := order.Status
	if err := o.orders.UpdateStatus(ctx, orderID, prev, next); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrConcurrentModification
		}
		return nil, err
	}
	if next == models.OrderStatusCancelled {
		metrics.OrdersCancelledTotal.WithLabelValues("admin").Inc()
	}
	o.publish(ctx, events.New(events.TypeOrderStatusChanged, orderID, map[string]interface{}{
		"from": string(prev),
		"to":   string(next),
	}))

	order.Status = next
	order.UpdatedAt = o.now().UTC()
	return order, nil
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("[CHECKOUT] [WARN] event publish failed",
			zap.String("event_type", event.Type),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrConcurrentModification):
		return ReasonCartModified
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	default:
		return "internal"
	}
}

package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructo/internal/payment"
)

const (
	webhookSignatureHeader = "X-Razorpay-Signature"
	maxWebhookBody         = 1 << 20
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, userID string, amount float64, orderID string) (*payment.Intent, error)
	KeyID() string
}

type PaymentReconciler interface {
	Verify(ctx context.Context, in payment.VerifyInput) (*payment.VerifyResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) (*payment.WebhookResult, error)
}

type createPaymentOrderRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	OrderID string  `json:"order_id"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           string `json:"order_id" binding:"required"`
}

func CreatePaymentOrder(intents IntentCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/create-order"
		defer handlePanic(c, route)

		var req createPaymentOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		intent, err := intents.CreateIntent(c.Request.Context(), currentUserID(c), req.Amount, req.OrderID)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

func VerifyPayment(reconciler PaymentReconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/verify"
		defer handlePanic(c, route)

		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		res, err := reconciler.Verify(c.Request.Context(), payment.VerifyInput{
			ProviderOrderRef:   req.RazorpayOrderID,
			ProviderPaymentRef: req.RazorpayPaymentID,
			Signature:          req.RazorpaySignature,
			OrderID:            req.OrderID,
			UserID:             currentUserID(c),
		})
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func GetPaymentKey(intents IntentCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"key_id": intents.KeyID()})
	}
}

// PaymentWebhook authenticates the provider callback over the raw body, so the
// body must not be bound or re-encoded before verification.
func PaymentWebhook(reconciler PaymentReconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payments/webhook"
		defer handlePanic(c, route)

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		res, err := reconciler.HandleWebhook(c.Request.Context(), body, c.GetHeader(webhookSignatureHeader))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		resp := gin.H{"status": "ok", "event": res.Event, "handled": res.Handled}
		if res.Reconciliation != "" {
			zap.L().Error("[WEBHOOK] [ERROR] needs manual reconciliation",
				zap.String("event", res.Event),
				zap.String("reconciliation", res.Reconciliation),
			)
			resp["reconciliation"] = res.Reconciliation
		}
		c.JSON(http.StatusOK, resp)
	}
}

// PaymentsUnavailable answers payment routes when no gateway keys are
// configured.
func PaymentsUnavailable() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWithError(c, http.StatusServiceUnavailable, c.FullPath(), "payments are not configured")
	}
}

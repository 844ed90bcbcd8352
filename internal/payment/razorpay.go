package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway adapts the razorpay-go client. Orders are created with
// automatic capture.
type RazorpayGateway struct {
	client  *razorpay.Client
	timeout time.Duration
}

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) *RazorpayGateway {
	return &RazorpayGateway{
		client:  razorpay.NewClient(keyID, keySecret),
		timeout: timeout,
	}
}

type razorpayResult struct {
	body map[string]interface{}
	err  error
}

// CreateOrder is never retried: a retry after an ambiguous failure could open
// a second provider order for the same purchase.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	data := map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        req.Currency,
		"payment_capture": 1,
	}
	if req.Receipt != "" {
		data["receipt"] = req.Receipt
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	// the SDK has no context support
	done := make(chan razorpayResult, 1)
	go func() {
		body, err := g.client.Order.Create(data, nil)
		done <- razorpayResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("razorpay order create: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return parseRazorpayOrder(res.body)
	}
}

func parseRazorpayOrder(body map[string]interface{}) (*GatewayOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay response missing order id")
	}
	order := &GatewayOrder{ID: id}
	switch amount := body["amount"].(type) {
	case float64:
		order.AmountMinor = int64(amount)
	case int64:
		order.AmountMinor = amount
	case int:
		order.AmountMinor = int64(amount)
	}
	order.Currency, _ = body["currency"].(string)
	order.Status, _ = body["status"].(string)
	return order, nil
}

package payment

import "context"

//go:generate mockgen -source=gateway.go -destination=mock_gateway_test.go -package=payment

// Gateway creates provider-side orders that the client then pays against.
type Gateway interface {
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
}

type GatewayOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

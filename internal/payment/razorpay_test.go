package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRazorpayOrder(t *testing.T) {
	order, err := parseRazorpayOrder(map[string]interface{}{
		"id":       "order_ABC",
		"amount":   float64(189700),
		"currency": "INR",
		"status":   "created",
	})
	require.NoError(t, err)

	assert.Equal(t, "order_ABC", order.ID)
	assert.Equal(t, int64(189700), order.AmountMinor)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)
}

func TestParseRazorpayOrderWithoutID(t *testing.T) {
	_, err := parseRazorpayOrder(map[string]interface{}{"error": map[string]interface{}{"code": "BAD_REQUEST_ERROR"}})
	assert.Error(t, err)
}

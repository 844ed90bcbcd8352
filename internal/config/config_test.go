package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SHIPPING_FREE_THRESHOLD", "")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("RAZORPAY_TIMEOUT", "nope")

	Load()

	assert.Equal(t, "constructo_db", AppEnv.DBName)
	assert.Equal(t, 5000.0, AppEnv.Shipping.FreeThreshold)
	assert.Equal(t, 99.0, AppEnv.Shipping.FlatFee)
	assert.Equal(t, []string{"a:9092", "b:9092"}, AppEnv.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, AppEnv.Razorpay.Timeout)
	assert.Equal(t, "INR", AppEnv.Razorpay.Currency)
	require.NoError(t, AppEnv.Validate())
}

func TestValidateReportsMissingKeys(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestPaymentsEnabled(t *testing.T) {
	cfg := Config{Razorpay: RazorpayConfig{KeyID: "rzp_test"}}
	assert.False(t, cfg.PaymentsEnabled())
	cfg.Razorpay.KeySecret = "s"
	assert.True(t, cfg.PaymentsEnabled())
}

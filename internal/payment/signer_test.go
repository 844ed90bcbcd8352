package payment

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerKnownVector(t *testing.T) {
	s := NewSigner("secret")
	// printf 'order_1|pay_1' | openssl dgst -sha256 -hmac secret
	assert.Equal(t, "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb", s.Sign("order_1", "pay_1"))
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("test_secret")
	sig := s.Sign("order_ABC", "pay_XYZ")

	assert.True(t, s.Verify("order_ABC", "pay_XYZ", sig))
	assert.False(t, s.Verify("order_ABC", "pay_OTHER", sig))
	assert.False(t, s.Verify("order_OTHER", "pay_XYZ", sig))
	assert.False(t, NewSigner("other_secret").Verify("order_ABC", "pay_XYZ", sig))
}

func TestSignerRejectsSingleBitFlip(t *testing.T) {
	s := NewSigner("test_secret")
	raw, err := hex.DecodeString(s.Sign("order_ABC", "pay_XYZ"))
	require.NoError(t, err)

	for i := 0; i < len(raw)*8; i++ {
		mutated := append([]byte(nil), raw...)
		mutated[i/8] ^= 1 << (i % 8)
		if s.Verify("order_ABC", "pay_XYZ", hex.EncodeToString(mutated)) {
			t.Fatalf("bit %d flip accepted", i)
		}
	}
}

func TestSignerRejectsMalformed(t *testing.T) {
	s := NewSigner("test_secret")

	assert.False(t, s.Verify("order_ABC", "pay_XYZ", ""))
	assert.False(t, s.Verify("order_ABC", "pay_XYZ", "zz-not-hex"))
	assert.False(t, s.Verify("order_ABC", "pay_XYZ", s.Sign("order_ABC", "pay_XYZ")[:32]))
}

func TestSignerWithoutSecretNeverVerifies(t *testing.T) {
	s := NewSigner("")
	assert.False(t, s.VerifyPayload([]byte("{}"), s.SignPayload([]byte("{}"))))
}

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes and checks provider HMAC-SHA256 signatures.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the checkout signature for an order/payment pair, the hex
// HMAC of "orderRef|paymentRef".
func (s *Signer) Sign(orderRef, paymentRef string) string {
	return s.SignPayload([]byte(orderRef + "|" + paymentRef))
}

func (s *Signer) Verify(orderRef, paymentRef, signature string) bool {
	return s.VerifyPayload([]byte(orderRef+"|"+paymentRef), signature)
}

func (s *Signer) SignPayload(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayload compares in constant time. Malformed hex never matches.
func (s *Signer) VerifyPayload(payload []byte, signature string) bool {
	if len(s.secret) == 0 {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hmac.Equal(got, mac.Sum(nil))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"constructo/internal/checkout"
	"constructo/internal/middleware"
	"constructo/internal/models"
	"constructo/internal/payment"
	"constructo/internal/store"
)

func newTestRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.([]byte); ok {
			buf.Write(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type stubCatalog struct {
	products   map[string]*models.Product
	categories []models.Category
	lastQuery  store.ProductQuery
	err        error
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubCatalog) ListProducts(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubCatalog) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return s.ListProducts(ctx, store.ProductQuery{})
}

func (s *stubCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return s.categories, s.err
}

type stubCarts struct {
	cart  *models.Cart
	err   error
	calls []string
}

func (s *stubCarts) GetCart(context.Context, string) (*models.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cart == nil {
		return nil, store.ErrNotFound
	}
	return s.cart, nil
}

func (s *stubCarts) AddItem(_ context.Context, _, productID string, _ int) error {
	s.calls = append(s.calls, "add:"+productID)
	return s.err
}

func (s *stubCarts) SetQuantity(_ context.Context, _, productID string, _ int) error {
	s.calls = append(s.calls, "set:"+productID)
	return s.err
}

func (s *stubCarts) RemoveItem(_ context.Context, _, productID string) error {
	s.calls = append(s.calls, "remove:"+productID)
	return s.err
}

func (s *stubCarts) Reset(context.Context, string) error {
	s.calls = append(s.calls, "reset")
	return s.err
}

type stubOrderService struct {
	order   *models.Order
	err     error
	lastIn  checkout.CreateOrderInput
	lastUID string
}

func (s *stubOrderService) CreateOrder(_ context.Context, userID string, in checkout.CreateOrderInput) (*models.Order, error) {
	s.lastUID, s.lastIn = userID, in
	return s.order, s.err
}

func (s *stubOrderService) CancelOrder(_ context.Context, userID, _ string) (*models.Order, error) {
	s.lastUID = userID
	return s.order, s.err
}

func (s *stubOrderService) AdvanceStatus(context.Context, string, models.OrderStatus) (*models.Order, error) {
	return s.order, s.err
}

type stubPayments struct {
	intent        *payment.Intent
	verifyResult  *payment.VerifyResult
	webhookResult *payment.WebhookResult
	err           error
	lastVerify    payment.VerifyInput
	lastBody      []byte
	lastSignature string
}

func (s *stubPayments) CreateIntent(context.Context, string, float64, string) (*payment.Intent, error) {
	return s.intent, s.err
}

func (s *stubPayments) KeyID() string { return "rzp_test_key" }

func (s *stubPayments) Verify(_ context.Context, in payment.VerifyInput) (*payment.VerifyResult, error) {
	s.lastVerify = in
	return s.verifyResult, s.err
}

func (s *stubPayments) HandleWebhook(_ context.Context, body []byte, signature string) (*payment.WebhookResult, error) {
	s.lastBody, s.lastSignature = body, signature
	return s.webhookResult, s.err
}

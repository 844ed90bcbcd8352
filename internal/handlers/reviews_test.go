package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constructo/internal/models"
)

type memReviews struct {
	reviews []models.Review
}

func (m *memReviews) ListReviews(_ context.Context, productID string, _ int64) ([]models.Review, error) {
	out := make([]models.Review, 0)
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].ProductID == productID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

func (m *memReviews) AddReview(_ context.Context, r *models.Review) (*models.RatingSummary, error) {
	m.reviews = append(m.reviews, *r)
	sum, n := 0, 0
	for _, existing := range m.reviews {
		if existing.ProductID == r.ProductID {
			sum += existing.Rating
			n++
		}
	}
	return &models.RatingSummary{Rating: float64(sum) / float64(n), ReviewCount: n}, nil
}

func reviewRouter(reviews *memReviews, users *memUsers) *gin.Engine {
	r := newTestRouter("u1")
	r.GET("/api/products/:id/reviews", GetProductReviews(reviews))
	r.POST("/api/reviews", CreateReview(reviews, drillCatalog(), users))
	return r
}

func TestCreateAndListReviews(t *testing.T) {
	users := newMemUsers()
	users.byEmail["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}
	reviews := &memReviews{}
	r := reviewRouter(reviews, users)

	w := doJSON(r, http.MethodPost, "/api/reviews", map[string]interface{}{
		"product_id": "drill", "rating": 4, "comment": " Solid drill ",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Ada", body["user_name"])
	assert.Equal(t, "u1", body["user_id"])
	assert.Equal(t, "Solid drill", body["comment"])

	w = doJSON(r, http.MethodGet, "/api/products/drill/reviews", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":4`)
	assert.Len(t, reviews.reviews, 1)
}

func TestCreateReviewValidation(t *testing.T) {
	users := newMemUsers()
	users.byEmail["ada@example.com"] = &models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}
	reviews := &memReviews{}
	r := reviewRouter(reviews, users)

	cases := map[string]struct {
		body map[string]interface{}
		want int
	}{
		"rating too high": {map[string]interface{}{"product_id": "drill", "rating": 6, "comment": "x"}, http.StatusBadRequest},
		"rating zero":     {map[string]interface{}{"product_id": "drill", "rating": 0, "comment": "x"}, http.StatusBadRequest},
		"no comment":      {map[string]interface{}{"product_id": "drill", "rating": 3}, http.StatusBadRequest},
		"unknown product": {map[string]interface{}{"product_id": "nope", "rating": 3, "comment": "x"}, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/reviews", tc.body, nil)
			assert.Equal(t, tc.want, w.Code)
		})
	}
	assert.Empty(t, reviews.reviews)
}

func TestListReviewsEmpty(t *testing.T) {
	r := reviewRouter(&memReviews{}, newMemUsers())

	w := doJSON(r, http.MethodGet, "/api/products/drill/reviews", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

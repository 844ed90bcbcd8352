package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"constructo/internal/models"
	"constructo/internal/store"
)

const maxReviewLimit = 100

type ReviewStore interface {
	ListReviews(ctx context.Context, productID string, limit int64) ([]models.Review, error)
	AddReview(ctx context.Context, review *models.Review) (*models.RatingSummary, error)
}

type createReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required"`
}

func GetProductReviews(reviews ReviewStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id/reviews"
		defer handlePanic(c, route)

		list, err := reviews.ListReviews(c.Request.Context(), c.Param("id"), maxReviewLimit)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateReview stores a review by the signed-in user and refreshes the
// product's rating and review count.
func CreateReview(reviews ReviewStore, catalog CatalogReader, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews"
		defer handlePanic(c, route)

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx := c.Request.Context()
		if _, err := catalog.GetProduct(ctx, req.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, http.StatusNotFound, route, "Product not found")
				return
			}
			writeDomainError(c, route, err)
			return
		}

		user, err := users.FindUserByID(ctx, currentUserID(c))
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		review := &models.Review{
			ID:        uuid.NewString(),
			ProductID: req.ProductID,
			UserID:    user.ID,
			UserName:  user.Name,
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			CreatedAt: time.Now().UTC(),
		}
		summary, err := reviews.AddReview(ctx, review)
		if err != nil {
			writeDomainError(c, route, err)
			return
		}

		zap.L().Info("[REVIEW] [INFO] review added",
			zap.String("product_id", review.ProductID),
			zap.String("user_id", review.UserID),
			zap.Float64("rating", summary.Rating),
			zap.Int("review_count", summary.ReviewCount),
		)
		c.JSON(http.StatusOK, review)
	}
}

package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"constructo/internal/models"
)

const maxReviewLimit = 100

type ReviewStore struct {
	db *mongo.Database
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{db: db}
}

// ListReviews returns a product's newest reviews first.
func (s *ReviewStore) ListReviews(ctx context.Context, productID string, limit int64) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 || limit > maxReviewLimit {
		limit = maxReviewLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := s.db.Collection(reviewsCollection).Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}

	reviews := make([]models.Review, 0)
	err = decodeAll(ctx, reviewsCollection, cursor, func(raw bson.Raw) error {
		var r models.Review
		if err := decodeRaw(reviewsCollection, raw, &r); err != nil {
			return err
		}
		reviews = append(reviews, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// AddReview stores the review and then recomputes the product's rating and
// review count from every review of that product.
func (s *ReviewStore) AddReview(ctx context.Context, review *models.Review) (*models.RatingSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.db.Collection(reviewsCollection).InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": review.ProductID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.db.Collection(reviewsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	var groups []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, &MalformedRecordError{Collection: reviewsCollection, Err: err}
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("aggregate reviews: no reviews for product %s", review.ProductID)
	}

	summary := &models.RatingSummary{Rating: roundRating(groups[0].Avg), ReviewCount: groups[0].Count}
	res, err := s.db.Collection(productsCollection).UpdateOne(ctx,
		bson.M{"id": review.ProductID},
		bson.M{"$set": bson.M{"rating": summary.Rating, "reviewCount": summary.ReviewCount}},
	)
	if err != nil {
		return nil, fmt.Errorf("update product rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return summary, nil
}

// roundRating keeps one decimal place, rounding halves away from zero.
func roundRating(avg float64) float64 {
	return decimal.NewFromFloat(avg).Round(1).InexactFloat64()
}

package models

import "time"

type Review struct {
	ID        string    `bson:"id" json:"id" validate:"required"`
	ProductID string    `bson:"productId" json:"product_id" validate:"required"`
	UserID    string    `bson:"userId" json:"user_id" validate:"required"`
	UserName  string    `bson:"userName" json:"user_name"`
	Rating    int       `bson:"rating" json:"rating" validate:"min=1,max=5"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// RatingSummary is the product rating recomputed after a review is added.
type RatingSummary struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

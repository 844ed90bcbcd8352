package models

import "time"

type CartItem struct {
	ProductID string `bson:"productId" json:"product_id" validate:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" validate:"min=1"`
}

// Cart is the single live cart of a user. Version increases on every write and
// guards the checkout clear against concurrent edits.
type Cart struct {
	ID        string     `bson:"id" json:"id"`
	UserID    string     `bson:"userId" json:"user_id" validate:"required"`
	Items     []CartItem `bson:"items" json:"items" validate:"dive"`
	Version   int64      `bson:"version" json:"-"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updated_at"`
}

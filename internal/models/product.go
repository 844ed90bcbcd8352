package models

import "time"

type Product struct {
	ID             string                 `bson:"id" json:"id" validate:"required"`
	Name           string                 `bson:"name" json:"name" validate:"required"`
	Description    string                 `bson:"description" json:"description"`
	Price          float64                `bson:"price" json:"price" validate:"gte=0"`
	OriginalPrice  *float64               `bson:"originalPrice,omitempty" json:"original_price,omitempty"`
	IsOnSale       bool                   `bson:"-" json:"is_on_sale"`
	Category       string                 `bson:"category" json:"category"`
	SKU            string                 `bson:"sku" json:"sku"`
	Image          string                 `bson:"image" json:"image"`
	Images         StringList             `bson:"images" json:"images"`
	Rating         float64                `bson:"rating" json:"rating"`
	ReviewCount    int                    `bson:"reviewCount" json:"review_count"`
	Stock          int                    `bson:"stock" json:"stock"`
	InStock        bool                   `bson:"-" json:"in_stock"`
	Brand          string                 `bson:"brand,omitempty" json:"brand,omitempty"`
	Specifications map[string]interface{} `bson:"specifications,omitempty" json:"specifications,omitempty"`
	CreatedAt      time.Time              `bson:"createdAt" json:"created_at"`
}

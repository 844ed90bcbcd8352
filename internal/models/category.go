package models

type Category struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Image       string `bson:"image" json:"image"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

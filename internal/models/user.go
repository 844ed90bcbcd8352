package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the application user account.
type User struct {
	ID           string    `bson:"id" json:"id" validate:"required"`
	Email        string    `bson:"email" json:"email" validate:"required"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Name         string    `bson:"name" json:"name"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

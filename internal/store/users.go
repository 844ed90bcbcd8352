package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"constructo/internal/models"
)

type UserStore struct {
	db *mongo.Database
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{db: db}
}

// CreateUser relies on the unique email index; a taken email is ErrDuplicate.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := decodeSingle(usersCollection, s.db.Collection(usersCollection).FindOne(ctx, filter), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/loopify/deal-service/internal/app/config"
	"github.com/loopify/deal-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.UserReader {
	return &userRepository{
		collection: client.Database(cfg.Database).Collection(userCollectionName),
	}
}

func (r *userRepository) GetEmailByID(ctx context.Context, userID string) (string, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", repository.ErrNotFound
	}

	var doc struct {
		Email string `bson:"email"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get email for user %s: %w", userID, err)
	}
	return doc.Email, nil
}

func (r *userRepository) GetUsernameByID(ctx context.Context, userID string) (string, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", repository.ErrNotFound
	}

	var doc struct {
		Username string `bson:"username"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get username for user %s: %w", userID, err)
	}
	return doc.Username, nil
}

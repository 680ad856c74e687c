package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/loopify/deal-service/internal/app/config"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const listingCollectionName = "listings"

// listingDocument maps only the listing fields this service reads. The
// listing service owns the rest of the schema.
type listingDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	SellerID string             `bson:"user_id"`
	Title    string             `bson:"title"`
	Price    float64            `bson:"price"`
	Status   string             `bson:"status"`
}

func toListingEntity(doc *listingDocument) *entity.Listing {
	return &entity.Listing{
		ID:       doc.ID.Hex(),
		SellerID: doc.SellerID,
		Title:    doc.Title,
		Price:    doc.Price,
		Status:   doc.Status,
	}
}

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	return &listingRepository{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
	}
}

func (r *listingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", listingID, err)
	}
	return toListingEntity(&doc), nil
}

func (r *listingRepository) Delete(ctx context.Context, listingID string) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

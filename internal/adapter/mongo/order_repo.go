package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loopify/deal-service/internal/app/config"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollectionName = "orders"

type orderDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ListingID       string             `bson:"listing_id"`
	BuyerID         string             `bson:"buyer_id"`
	SellerID        string             `bson:"seller_id"`
	Status          entity.OrderStatus `bson:"status"`
	NegotiablePrice *float64           `bson:"negotiable_price,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
	Version         int                `bson:"version"`
}

func toOrderDocument(o *entity.Order) (*orderDocument, error) {
	doc := &orderDocument{
		ListingID:       o.ListingID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		NegotiablePrice: o.NegotiablePrice,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
	if o.ID != "" {
		objID, err := primitive.ObjectIDFromHex(o.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid order ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toOrderEntity(doc *orderDocument) *entity.Order {
	return &entity.Order{
		ID:              doc.ID.Hex(),
		ListingID:       doc.ListingID,
		BuyerID:         doc.BuyerID,
		SellerID:        doc.SellerID,
		Status:          doc.Status,
		NegotiablePrice: doc.NegotiablePrice,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		Version:         doc.Version,
	}
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.OrderRepository {
	collection := client.Database(cfg.Database).Collection(orderCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "buyer_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Index creation failure is not fatal: the indexes may already exist.
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &orderRepository{collection: collection}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	doc, err := toOrderDocument(order)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc orderDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", orderID, err)
	}
	return toOrderEntity(&doc), nil
}

func (r *orderRepository) FindActive(ctx context.Context, listingID, buyerID string) (*entity.Order, error) {
	filter := bson.M{
		"listing_id": listingID,
		"buyer_id":   buyerID,
		"status":     bson.M{"$ne": entity.StatusCancelled},
	}

	var doc orderDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active order for listing %s: %w", listingID, err)
	}
	return toOrderEntity(&doc), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, params repository.UpdateOrderStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.OrderID)
	if err != nil {
		return repository.ErrNotFound
	}

	filter := bson.M{
		"_id":     objID,
		"version": params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     params.Status,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update order status for ID %s: %w", params.OrderID, err)
	}

	if result.MatchedCount == 0 {
		var existing orderDocument
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Version != params.Version {
			return repository.ErrOptimisticLock
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID string) error {
	objID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", orderID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, params repository.ListOrdersParams) (*repository.ListOrdersResult, error) {
	filter := bson.M{}
	if params.BuyerID != "" {
		filter["buyer_id"] = params.BuyerID
	}
	if params.SellerID != "" {
		filter["seller_id"] = params.SellerID
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.PageSize > 0 {
		if params.Page <= 0 {
			params.Page = 1
		}
		findOptions.SetSkip(int64((params.Page - 1) * params.PageSize))
		findOptions.SetLimit(int64(params.PageSize))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed orders: %w", err)
	}

	orders := make([]entity.Order, len(docs))
	for i := range docs {
		orders[i] = *toOrderEntity(&docs[i])
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	return &repository.ListOrdersResult{
		Orders:     orders,
		TotalCount: totalCount,
	}, nil
}

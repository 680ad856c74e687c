package mongo

import (
	"context"
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

const notificationCollectionName = "notifications"

type notificationDocument struct {
	ID             primitive.ObjectID      `bson:"_id,omitempty"`
	RecipientID    string                  `bson:"recipient_id"`
	Type           entity.NotificationType `bson:"type"`
	Message        string                  `bson:"message"`
	RelatedOrderID *string                 `bson:"related_order_id,omitempty"`
	Metadata       map[string]string       `bson:"metadata,omitempty"`
	IsRead         bool                    `bson:"is_read"`
	CreatedAt      time.Time               `bson:"created_at"`
}

func toNotificationDocument(n *entity.Notification) (*notificationDocument, error) {
	doc := &notificationDocument{
		RecipientID:    n.RecipientID,
		Type:           n.Type,
		Message:        n.Message,
		RelatedOrderID: n.RelatedOrderID,
		Metadata:       n.Metadata,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
	if n.ID != "" {
		objID, err := primitive.ObjectIDFromHex(n.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid notification ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toNotificationEntity(doc *notificationDocument) *entity.Notification {
	return &entity.Notification{
		ID:             doc.ID.Hex(),
		RecipientID:    doc.RecipientID,
		Type:           doc.Type,
		Message:        doc.Message,
		RelatedOrderID: doc.RelatedOrderID,
		Metadata:       doc.Metadata,
		IsRead:         doc.IsRead,
		CreatedAt:      doc.CreatedAt,
	}
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.NotificationRepository {
	collection := client.Database(cfg.Database).Collection(notificationCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &notificationRepository{collection: collection}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) (string, error) {
	doc, err := toNotificationDocument(notification)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, page, pageSize int) (*repository.ListNotificationsResult, error) {
	filter := bson.M{"recipient_id": recipientID}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed notifications: %w", err)
	}

	notifications := make([]entity.Notification, len(docs))
	for i := range docs {
		notifications[i] = *toNotificationEntity(&docs[i])
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	unreadCount, err := r.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &repository.ListNotificationsResult{
		Notifications: notifications,
		TotalCount:    totalCount,
		UnreadCount:   unreadCount,
	}, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return repository.ErrNotFound
	}

	// Ownership is part of the filter, so a foreign notification behaves
	// exactly like a missing one.
	filter := bson.M{"_id": objID, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"is_read": true}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s as read: %w", notificationID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}

	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read for recipient %s: %w", recipientID, err)
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepository) Delete(ctx context.Context, notificationID, recipientID string) error {
	objID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "recipient_id": recipientID})
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", notificationID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for recipient %s: %w", recipientID, err)
	}
	return count, nil
}

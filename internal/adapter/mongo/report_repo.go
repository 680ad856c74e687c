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

const reportCollectionName = "reports"

type reportDocument struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	ListingID  string              `bson:"listing_id"`
	ReporterID string              `bson:"reporter_id"`
	Reason     entity.ReportReason `bson:"reason"`
	Details    string              `bson:"details,omitempty"`
	CreatedAt  time.Time           `bson:"created_at"`
}

func toReportEntity(doc *reportDocument) *entity.Report {
	return &entity.Report{
		ID:         doc.ID.Hex(),
		ListingID:  doc.ListingID,
		ReporterID: doc.ReporterID,
		Reason:     doc.Reason,
		Details:    doc.Details,
		CreatedAt:  doc.CreatedAt,
	}
}

type reportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ReportRepository {
	collection := client.Database(cfg.Database).Collection(reportCollectionName)

	// The unique compound index is what enforces one report per
	// (listing, reporter) pair.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "reporter_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = collection.Indexes().CreateMany(ctx, indexes)

	return &reportRepository{collection: collection}
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) (string, error) {
	doc := &reportDocument{
		ListingID:  report.ListingID,
		ReporterID: report.ReporterID,
		Reason:     report.Reason,
		Details:    report.Details,
		CreatedAt:  report.CreatedAt,
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create report: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *reportRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports for listing %s: %w", listingID, err)
	}
	return count, nil
}

func (r *reportRepository) List(ctx context.Context, page, pageSize int) (*repository.ListReportsResult, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		findOptions.SetSkip(int64((page - 1) * pageSize))
		findOptions.SetLimit(int64(pageSize))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []reportDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed reports: %w", err)
	}

	reports := make([]entity.Report, len(docs))
	for i := range docs {
		reports[i] = *toReportEntity(&docs[i])
	}

	totalCount, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	return &repository.ListReportsResult{
		Reports:    reports,
		TotalCount: totalCount,
	}, nil
}

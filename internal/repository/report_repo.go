package repository

import (
	"context"

	"github.com/loopify/deal-service/internal/domain/entity"
)

type ListReportsResult struct {
	Reports    []entity.Report
	TotalCount int64
}

type ReportRepository interface {
	// Create inserts the report; ErrAlreadyExists when the (listing,
	// reporter) pair was already recorded.
	Create(ctx context.Context, report *entity.Report) (string, error)
	CountByListing(ctx context.Context, listingID string) (int64, error)
	List(ctx context.Context, page, pageSize int) (*ListReportsResult, error)
}

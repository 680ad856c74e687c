package repository

import (
	"context"
	"time"

	"github.com/loopify/deal-service/internal/domain/entity"
)

// ListingCache sits in front of ListingRepository for read paths.
type ListingCache interface {
	Get(ctx context.Context, listingID string) (*entity.Listing, error)
	Set(ctx context.Context, listing *entity.Listing, ttl time.Duration) error
	Delete(ctx context.Context, listingID string) error
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/repository"
)

// ListingResolver reads listings through the cache, falling back to the
// listing store. Cache failures degrade to direct reads, never to errors.
type ListingResolver struct {
	listingRepo repository.ListingRepository
	cache       repository.ListingCache
	cacheTTL    time.Duration
	log         logger.Logger
}

func NewListingResolver(
	listingRepo repository.ListingRepository,
	cache repository.ListingCache,
	cacheTTL time.Duration,
	log logger.Logger,
) *ListingResolver {
	return &ListingResolver{
		listingRepo: listingRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

// Resolve returns the listing or repository.ErrNotFound.
func (r *ListingResolver) Resolve(ctx context.Context, listingID string) (*entity.Listing, error) {
	if r.cache != nil {
		listing, err := r.cache.Get(ctx, listingID)
		if err == nil {
			return listing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			r.log.Warnf("Listing cache read failed for %s: %v", listingID, err)
		}
	}

	listing, err := r.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if setErr := r.cache.Set(ctx, listing, r.cacheTTL); setErr != nil {
			r.log.Warnf("Failed to cache listing %s: %v", listingID, setErr)
		}
	}
	return listing, nil
}

// Invalidate drops the cached copy; used after a listing removal.
func (r *ListingResolver) Invalidate(ctx context.Context, listingID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, listingID); err != nil {
		r.log.Warnf("Failed to invalidate cached listing %s: %v", listingID, err)
	}
}

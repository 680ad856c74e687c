package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const listingCacheKeyPrefix = "listing_detail:"

type listingCacheRepository struct {
	client *redis.Client
}

func NewListingCacheRepository(client *redis.Client) repository.ListingCache {
	return &listingCacheRepository{client: client}
}

func (r *listingCacheRepository) getListingKey(listingID string) string {
	return listingCacheKeyPrefix + listingID
}

func (r *listingCacheRepository) Get(ctx context.Context, listingID string) (*entity.Listing, error) {
	key := r.getListingKey(listingID)
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %s from redis: %w", listingID, err)
	}

	var listing entity.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		// Corrupted entry: drop it and report a miss.
		_ = r.Delete(ctx, listingID)
		return nil, repository.ErrNotFound
	}
	return &listing, nil
}

func (r *listingCacheRepository) Set(ctx context.Context, listing *entity.Listing, ttl time.Duration) error {
	if listing == nil || listing.ID == "" {
		return errors.New("cannot cache nil listing or listing with empty ID")
	}
	key := r.getListingKey(listing.ID)

	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal listing %s for cache: %w", listing.ID, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing %s to redis: %w", listing.ID, err)
	}
	return nil
}

func (r *listingCacheRepository) Delete(ctx context.Context, listingID string) error {
	if err := r.client.Del(ctx, r.getListingKey(listingID)).Err(); err != nil {
		return fmt.Errorf("failed to delete listing %s from redis: %w", listingID, err)
	}
	return nil
}

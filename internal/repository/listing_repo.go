package repository

import (
	"context"

	"github.com/loopify/deal-service/internal/domain/entity"
)

// ListingRepository is the narrow contract this service has with the
// listing store: resolve a listing for validation/display, remove one when
// the report threshold is breached.
type ListingRepository interface {
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	Delete(ctx context.Context, listingID string) error
}

// UserReader resolves display/contact data for a user id handed to us by
// the identity provider. A missing user is reported as ErrNotFound and is
// never fatal to the calling operation.
type UserReader interface {
	GetEmailByID(ctx context.Context, userID string) (string, error)
	GetUsernameByID(ctx context.Context, userID string) (string, error)
}

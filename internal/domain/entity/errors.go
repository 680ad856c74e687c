package entity

import "errors"

// Domain errors surfaced to callers. The HTTP port maps each of these to a
// distinct status code, so they must never be collapsed into a generic
// failure on the way up.
var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrMissingSeller        = errors.New("listing has no seller reference")
	ErrSelfOrder            = errors.New("cannot place an order on your own listing")
	ErrDuplicateOrder       = errors.New("an active order for this listing already exists")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotAuthorized        = errors.New("actor is not authorized for this action")
	ErrInvalidTransition    = errors.New("order status transition is not allowed")
	ErrInvalidDeleteState   = errors.New("order cannot be deleted in its current status")
	ErrInvalidPrice         = errors.New("negotiable price must be positive")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrDuplicateReport      = errors.New("listing already reported by this user")
	ErrInvalidReport        = errors.New("invalid report data")
)

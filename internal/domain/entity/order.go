package entity

import (
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusRejected  OrderStatus = "rejected"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s OrderStatus) IsTerminal() bool {
	return s != StatusPending
}

// Order is a buyer's request to transact on a listing. SellerID is
// denormalized from the listing at creation time so authorization checks
// never need the listing store again.
type Order struct {
	ID              string
	ListingID       string
	BuyerID         string
	SellerID        string
	Status          OrderStatus
	NegotiablePrice *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

func NewOrder(listingID, buyerID, sellerID string, negotiablePrice *float64) (*Order, error) {
	if listingID == "" {
		return nil, ErrListingNotFound
	}
	if sellerID == "" {
		return nil, ErrMissingSeller
	}
	if buyerID == sellerID {
		return nil, ErrSelfOrder
	}
	if negotiablePrice != nil && *negotiablePrice <= 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now().UTC()
	return &Order{
		ListingID:       listingID,
		BuyerID:         buyerID,
		SellerID:        sellerID,
		Status:          StatusPending,
		NegotiablePrice: negotiablePrice,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}, nil
}

// validTransitions is the whole state machine: pending is the only
// non-terminal status.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:  {},
	StatusRejected:  {},
	StatusCancelled: {},
}

// CanTransitionTo checks only the status table, not the acting party.
func (o *Order) CanTransitionTo(newStatus OrderStatus) bool {
	allowed, ok := validTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Transition applies newStatus on behalf of actorID. Accept/reject belong
// to the seller, cancel to the buyer; everything else is refused.
func (o *Order) Transition(actorID string, newStatus OrderStatus) error {
	if !newStatus.IsValid() || newStatus == StatusPending {
		return ErrInvalidTransition
	}
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}

	switch newStatus {
	case StatusAccepted, StatusRejected:
		if actorID != o.SellerID {
			return ErrNotAuthorized
		}
	case StatusCancelled:
		if actorID != o.BuyerID {
			return ErrNotAuthorized
		}
	}

	o.Status = newStatus
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// CanBeDeletedBy: the buyer may remove a still-pending order, the seller
// may purge a decided one.
func (o *Order) CanBeDeletedBy(actorID string) error {
	switch actorID {
	case o.BuyerID:
		if o.Status != StatusPending {
			return ErrInvalidDeleteState
		}
		return nil
	case o.SellerID:
		if o.Status != StatusAccepted && o.Status != StatusRejected {
			return ErrInvalidDeleteState
		}
		return nil
	default:
		return ErrNotAuthorized
	}
}

func (o *Order) IsParty(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

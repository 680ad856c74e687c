package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrder_Defaults(t *testing.T) {
	order, err := NewOrder("listing1", "buyer1", "seller1", nil)

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 1, order.Version)
	assert.Nil(t, order.NegotiablePrice)
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)
}

func TestNewOrder_Validation(t *testing.T) {
	badPrice := 0.0

	_, err := NewOrder("", "buyer1", "seller1", nil)
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = NewOrder("listing1", "buyer1", "", nil)
	assert.ErrorIs(t, err, ErrMissingSeller)

	_, err = NewOrder("listing1", "user1", "user1", nil)
	assert.ErrorIs(t, err, ErrSelfOrder)

	_, err = NewOrder("listing1", "buyer1", "seller1", &badPrice)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestOrder_CanTransitionTo(t *testing.T) {
	pending := &Order{Status: StatusPending}
	assert.True(t, pending.CanTransitionTo(StatusAccepted))
	assert.True(t, pending.CanTransitionTo(StatusRejected))
	assert.True(t, pending.CanTransitionTo(StatusCancelled))

	for _, terminal := range []OrderStatus{StatusAccepted, StatusRejected, StatusCancelled} {
		order := &Order{Status: terminal}
		for _, target := range []OrderStatus{StatusPending, StatusAccepted, StatusRejected, StatusCancelled} {
			assert.False(t, order.CanTransitionTo(target), "expected %s -> %s to be refused", terminal, target)
		}
	}
}

func TestOrder_Transition_PartyRules(t *testing.T) {
	newPendingOrder := func() *Order {
		return &Order{ID: "order1", ListingID: "listing1", BuyerID: "buyer1", SellerID: "seller1", Status: StatusPending, Version: 1}
	}

	order := newPendingOrder()
	assert.NoError(t, order.Transition("seller1", StatusAccepted))
	assert.Equal(t, StatusAccepted, order.Status)

	order = newPendingOrder()
	assert.NoError(t, order.Transition("seller1", StatusRejected))
	assert.Equal(t, StatusRejected, order.Status)

	order = newPendingOrder()
	assert.NoError(t, order.Transition("buyer1", StatusCancelled))
	assert.Equal(t, StatusCancelled, order.Status)

	order = newPendingOrder()
	assert.ErrorIs(t, order.Transition("buyer1", StatusAccepted), ErrNotAuthorized)
	assert.ErrorIs(t, order.Transition("seller1", StatusCancelled), ErrNotAuthorized)
	assert.ErrorIs(t, order.Transition("stranger", StatusAccepted), ErrNotAuthorized)
	assert.Equal(t, StatusPending, order.Status)
}

func TestOrder_Transition_InvalidTargets(t *testing.T) {
	order := &Order{BuyerID: "buyer1", SellerID: "seller1", Status: StatusPending}

	assert.ErrorIs(t, order.Transition("seller1", StatusPending), ErrInvalidTransition)
	assert.ErrorIs(t, order.Transition("seller1", OrderStatus("shipped")), ErrInvalidTransition)

	accepted := &Order{BuyerID: "buyer1", SellerID: "seller1", Status: StatusAccepted}
	assert.ErrorIs(t, accepted.Transition("seller1", StatusRejected), ErrInvalidTransition)
}

func TestOrder_CanBeDeletedBy(t *testing.T) {
	order := func(status OrderStatus) *Order {
		return &Order{BuyerID: "buyer1", SellerID: "seller1", Status: status}
	}

	assert.NoError(t, order(StatusPending).CanBeDeletedBy("buyer1"))
	assert.ErrorIs(t, order(StatusAccepted).CanBeDeletedBy("buyer1"), ErrInvalidDeleteState)
	assert.ErrorIs(t, order(StatusCancelled).CanBeDeletedBy("buyer1"), ErrInvalidDeleteState)

	assert.NoError(t, order(StatusAccepted).CanBeDeletedBy("seller1"))
	assert.NoError(t, order(StatusRejected).CanBeDeletedBy("seller1"))
	assert.ErrorIs(t, order(StatusPending).CanBeDeletedBy("seller1"), ErrInvalidDeleteState)
	assert.ErrorIs(t, order(StatusCancelled).CanBeDeletedBy("seller1"), ErrInvalidDeleteState)

	assert.ErrorIs(t, order(StatusPending).CanBeDeletedBy("stranger"), ErrNotAuthorized)
}

func TestOrder_IsParty(t *testing.T) {
	order := &Order{BuyerID: "buyer1", SellerID: "seller1"}

	assert.True(t, order.IsParty("buyer1"))
	assert.True(t, order.IsParty("seller1"))
	assert.False(t, order.IsParty("stranger"))
}

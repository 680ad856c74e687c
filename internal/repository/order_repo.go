package repository

import (
	"context"

	"github.com/loopify/deal-service/internal/domain/entity"
)

type ListOrdersParams struct {
	BuyerID  string
	SellerID string
	Page     int
	PageSize int
}

type ListOrdersResult struct {
	Orders     []entity.Order
	TotalCount int64
}

type UpdateOrderStatusParams struct {
	OrderID string
	Status  entity.OrderStatus
	Version int
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, orderID string) (*entity.Order, error)
	// FindActive returns the non-cancelled order for a (listing, buyer)
	// pair, or ErrNotFound. Used for the duplicate-order check.
	FindActive(ctx context.Context, listingID, buyerID string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, params UpdateOrderStatusParams) error
	Delete(ctx context.Context, orderID string) error
	List(ctx context.Context, params ListOrdersParams) (*ListOrdersResult, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loopify/deal-service/internal/adapter/nats"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/repository"
)

const (
	natsSubjectOrderPlaced        = "order.placed"
	natsSubjectOrderStatusUpdated = "order.status.updated"
)

// OrderView is an order enriched with display data resolved from the
// listing store and user directory. Either field may be empty when the
// referenced entity has vanished.
type OrderView struct {
	Order            entity.Order
	ListingTitle     string
	CounterpartyName string
}

type ListOrdersOutput struct {
	Orders     []OrderView
	TotalCount int64
}

type OrderService interface {
	PlaceOrder(ctx context.Context, buyerID, listingID string, negotiablePrice *float64) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID, actorID string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, orderID, actorID string, newStatus entity.OrderStatus) (*entity.Order, error)
	DeleteOrder(ctx context.Context, orderID, actorID string) error
	ListForBuyer(ctx context.Context, buyerID string, page, pageSize int) (*ListOrdersOutput, error)
	ListForSeller(ctx context.Context, sellerID string, page, pageSize int) (*ListOrdersOutput, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	listings     *ListingResolver
	users        repository.UserReader
	notifier     NotificationService
	msgPublisher nats.MessagePublisher
	log          logger.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	listings *ListingResolver,
	users repository.UserReader,
	notifier NotificationService,
	msgPublisher nats.MessagePublisher,
	log logger.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		listings:     listings,
		users:        users,
		notifier:     notifier,
		msgPublisher: msgPublisher,
		log:          log,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, buyerID, listingID string, negotiablePrice *float64) (*entity.Order, error) {
	s.log.Infof("Placing order on listing %s for buyer %s", listingID, buyerID)

	listing, err := s.listings.Resolve(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to resolve listing %s: %w", listingID, err)
	}

	order, err := entity.NewOrder(listing.ID, buyerID, listing.SellerID, negotiablePrice)
	if err != nil {
		s.log.Warnf("Order on listing %s by buyer %s rejected: %v", listingID, buyerID, err)
		return nil, err
	}

	// A cancelled order does not block resubmission; accepted and rejected
	// ones do.
	existing, err := s.orderRepo.FindActive(ctx, listing.ID, buyerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate order: %w", err)
	}
	if existing != nil {
		s.log.Warnf("Duplicate order on listing %s by buyer %s (existing order %s, status %s)",
			listingID, buyerID, existing.ID, existing.Status)
		return nil, entity.ErrDuplicateOrder
	}

	orderID, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		s.log.Errorf("Failed to save order on listing %s for buyer %s: %v", listingID, buyerID, err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	order.ID = orderID

	// Side effects past this point are best-effort: the order is already
	// persisted and is never rolled back.
	s.notifySellerOfRequest(ctx, order, listing)

	if errPub := s.msgPublisher.Publish(ctx, natsSubjectOrderPlaced, orderEvent(order)); errPub != nil {
		s.log.Warnf("Failed to publish order placed event for order %s: %v", order.ID, errPub)
	}

	s.log.Infof("Order %s placed successfully on listing %s by buyer %s", order.ID, listingID, buyerID)
	return order, nil
}

func (s *orderService) notifySellerOfRequest(ctx context.Context, order *entity.Order, listing *entity.Listing) {
	message := fmt.Sprintf("New order request for %q", listing.Title)
	metadata := map[string]string{
		"listing_id":    listing.ID,
		"listing_title": listing.Title,
	}
	if order.NegotiablePrice != nil {
		message = fmt.Sprintf("%s with an offer of %.2f", message, *order.NegotiablePrice)
		metadata["negotiable_price"] = fmt.Sprintf("%.2f", *order.NegotiablePrice)
	}

	if _, err := s.notifier.Notify(ctx, order.SellerID, entity.NotificationOrderRequest, message, &order.ID, metadata); err != nil {
		s.log.Warnf("Failed to notify seller %s about order %s: %v", order.SellerID, order.ID, err)
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderID, actorID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	if !order.IsParty(actorID) {
		s.log.Warnf("User %s attempted to access order %s belonging to buyer %s and seller %s",
			actorID, orderID, order.BuyerID, order.SellerID)
		return nil, entity.ErrNotAuthorized
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID, actorID string, newStatus entity.OrderStatus) (*entity.Order, error) {
	s.log.Infof("User %s transitioning order %s to %s", actorID, orderID, newStatus)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	currentVersion := order.Version
	if err := order.Transition(actorID, newStatus); err != nil {
		s.log.Warnf("Transition of order %s to %s by user %s refused: %v", orderID, newStatus, actorID, err)
		return nil, err
	}

	err = s.orderRepo.UpdateStatus(ctx, repository.UpdateOrderStatusParams{
		OrderID: order.ID,
		Status:  order.Status,
		Version: currentVersion,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			// A concurrent caller moved the order out of pending first;
			// this caller observes a terminal state.
			s.log.Warnf("Lost transition race on order %s (attempted %s)", orderID, newStatus)
			return nil, entity.ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, entity.ErrOrderNotFound
		}
		s.log.Errorf("Failed to save status %s for order %s: %v", newStatus, orderID, err)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Version = currentVersion + 1

	if newStatus == entity.StatusAccepted || newStatus == entity.StatusRejected {
		s.notifyBuyerOfDecision(ctx, order)
	}

	if errPub := s.msgPublisher.Publish(ctx, natsSubjectOrderStatusUpdated, orderEvent(order)); errPub != nil {
		s.log.Warnf("Failed to publish order status updated event for order %s: %v", order.ID, errPub)
	}

	s.log.Infof("Order %s transitioned to %s by user %s", orderID, newStatus, actorID)
	return order, nil
}

func (s *orderService) notifyBuyerOfDecision(ctx context.Context, order *entity.Order) {
	var message string
	if listing, err := s.listings.Resolve(ctx, order.ListingID); err == nil {
		message = fmt.Sprintf("Your order for %q was %s", listing.Title, order.Status)
	} else {
		message = fmt.Sprintf("Your order was %s", order.Status)
	}

	metadata := map[string]string{
		"listing_id": order.ListingID,
		"status":     string(order.Status),
	}
	if _, err := s.notifier.Notify(ctx, order.BuyerID, entity.NotificationOrderStatusChange, message, &order.ID, metadata); err != nil {
		s.log.Warnf("Failed to notify buyer %s about order %s: %v", order.BuyerID, order.ID, err)
	}
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID, actorID string) error {
	s.log.Infof("User %s deleting order %s", actorID, orderID)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.ErrOrderNotFound
		}
		return fmt.Errorf("failed to retrieve order %s: %w", orderID, err)
	}

	if err := order.CanBeDeletedBy(actorID); err != nil {
		s.log.Warnf("Deletion of order %s by user %s refused: %v", orderID, actorID, err)
		return err
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.ErrOrderNotFound
		}
		s.log.Errorf("Failed to delete order %s: %v", orderID, err)
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.log.Infof("Order %s deleted by user %s", orderID, actorID)
	return nil
}

func (s *orderService) ListForBuyer(ctx context.Context, buyerID string, page, pageSize int) (*ListOrdersOutput, error) {
	return s.list(ctx, repository.ListOrdersParams{BuyerID: buyerID, Page: page, PageSize: pageSize})
}

func (s *orderService) ListForSeller(ctx context.Context, sellerID string, page, pageSize int) (*ListOrdersOutput, error) {
	return s.list(ctx, repository.ListOrdersParams{SellerID: sellerID, Page: page, PageSize: pageSize})
}

func (s *orderService) list(ctx context.Context, params repository.ListOrdersParams) (*ListOrdersOutput, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 10
	}

	result, err := s.orderRepo.List(ctx, params)
	if err != nil {
		s.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	views := make([]OrderView, len(result.Orders))
	for i, order := range result.Orders {
		views[i] = OrderView{Order: order}

		if listing, err := s.listings.Resolve(ctx, order.ListingID); err == nil {
			views[i].ListingTitle = listing.Title
		}

		counterpartyID := order.SellerID
		if params.SellerID != "" {
			counterpartyID = order.BuyerID
		}
		if name, err := s.users.GetUsernameByID(ctx, counterpartyID); err == nil {
			views[i].CounterpartyName = name
		}
	}

	return &ListOrdersOutput{Orders: views, TotalCount: result.TotalCount}, nil
}

func orderEvent(order *entity.Order) map[string]interface{} {
	event := map[string]interface{}{
		"order_id":   order.ID,
		"listing_id": order.ListingID,
		"buyer_id":   order.BuyerID,
		"seller_id":  order.SellerID,
		"status":     string(order.Status),
		"updated_at": order.UpdatedAt.Format(time.RFC3339Nano),
	}
	if order.NegotiablePrice != nil {
		event["negotiable_price"] = *order.NegotiablePrice
	}
	return event
}

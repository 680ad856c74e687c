package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/port/http/middleware"
	"github.com/loopify/deal-service/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	log          logger.Logger
}

func NewOrderHandler(orderService service.OrderService, log logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, log: log}
}

type placeOrderRequest struct {
	ListingID       string   `json:"listing_id"`
	NegotiablePrice *float64 `json:"negotiable_price,omitempty"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	BuyerID         string    `json:"buyer_id"`
	SellerID        string    `json:"seller_id"`
	Status          string    `json:"status"`
	NegotiablePrice *float64  `json:"negotiable_price,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type orderViewResponse struct {
	orderResponse
	ListingTitle     string `json:"listing_title,omitempty"`
	CounterpartyName string `json:"counterparty_name,omitempty"`
}

type orderListResponse struct {
	Orders     []orderViewResponse `json:"orders"`
	TotalCount int64               `json:"total_count"`
}

func toOrderResponse(o *entity.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		ListingID:       o.ListingID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          string(o.Status),
		NegotiablePrice: o.NegotiablePrice,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}

func (h *OrderHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for PlaceOrder: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ListingID == "" {
		http.Error(w, "listing_id is required", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), userID, req.ListingID, req.NegotiablePrice)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order), h.log)
}

func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order), h.log)
}

func (h *OrderHandler) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("Invalid request body for UpdateOrderStatus: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	newStatus := entity.OrderStatus(req.Status)
	if !newStatus.IsValid() {
		http.Error(w, "unknown order status", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), userID, newStatus)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order), h.log)
}

func (h *OrderHandler) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true}, h.log)
}

func (h *OrderHandler) HandleListBuying(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	page, pageSize := parsePagination(r)
	output, err := h.orderService.ListForBuyer(r.Context(), userID, page, pageSize)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(output), h.log)
}

func (h *OrderHandler) HandleListSelling(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	page, pageSize := parsePagination(r)
	output, err := h.orderService.ListForSeller(r.Context(), userID, page, pageSize)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(output), h.log)
}

func toOrderListResponse(output *service.ListOrdersOutput) orderListResponse {
	views := make([]orderViewResponse, len(output.Orders))
	for i, v := range output.Orders {
		views[i] = orderViewResponse{
			orderResponse:    toOrderResponse(&v.Order),
			ListingTitle:     v.ListingTitle,
			CounterpartyName: v.CounterpartyName,
		}
	}
	return orderListResponse{Orders: views, TotalCount: output.TotalCount}
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/port/http/middleware"
	"github.com/loopify/deal-service/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	log                 logger.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

type notificationResponse struct {
	ID             string            `json:"id"`
	RecipientID    string            `json:"recipient_id"`
	Type           string            `json:"type"`
	Message        string            `json:"message"`
	RelatedOrderID *string           `json:"related_order_id,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	IsRead         bool              `json:"is_read"`
	CreatedAt      time.Time         `json:"created_at"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	TotalCount    int64                  `json:"total_count"`
	UnreadCount   int64                  `json:"unread_count"`
}

func toNotificationResponse(n *entity.Notification) notificationResponse {
	return notificationResponse{
		ID:             n.ID,
		RecipientID:    n.RecipientID,
		Type:           string(n.Type),
		Message:        n.Message,
		RelatedOrderID: n.RelatedOrderID,
		Metadata:       n.Metadata,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	page, pageSize := parsePagination(r)
	result, err := h.notificationService.ListForRecipient(r.Context(), userID, page, pageSize)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}

	resp := notificationListResponse{
		Notifications: make([]notificationResponse, len(result.Notifications)),
		TotalCount:    result.TotalCount,
		UnreadCount:   result.UnreadCount,
	}
	for i := range result.Notifications {
		resp.Notifications[i] = toNotificationResponse(&result.Notifications[i])
	}
	writeJSON(w, http.StatusOK, resp, h.log)
}

func (h *NotificationHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"unread_count": count}, h.log)
}

func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true}, h.log)
}

func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	affected, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked_read": affected}, h.log)
}

func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := h.notificationService.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeDomainError(w, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true}, h.log)
}

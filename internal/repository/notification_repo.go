package repository

import (
	"context"

	"github.com/loopify/deal-service/internal/domain/entity"
)

type ListNotificationsResult struct {
	Notifications []entity.Notification
	TotalCount    int64
	UnreadCount   int64
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) (string, error)
	// ListByRecipient returns notifications newest first together with the
	// recipient's total and unread counts.
	ListByRecipient(ctx context.Context, recipientID string, page, pageSize int) (*ListNotificationsResult, error)
	// MarkRead flips is_read for a notification owned by recipientID.
	// Returns ErrNotFound when the notification is absent or owned by
	// someone else; the two cases are indistinguishable on purpose.
	MarkRead(ctx context.Context, notificationID, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, notificationID, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

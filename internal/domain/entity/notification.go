package entity

import "time"

type NotificationType string

const (
	NotificationOrderRequest      NotificationType = "ORDER_REQUEST"
	NotificationOrderStatusChange NotificationType = "ORDER_STATUS_CHANGE"
	NotificationReportAck         NotificationType = "REPORT_ACK"
)

// Notification is an append-only side effect of an order or report
// transition. RelatedOrderID is a weak reference: the order may be deleted
// later and the ID left dangling, so it is display data only.
type Notification struct {
	ID             string
	RecipientID    string
	Type           NotificationType
	Message        string
	RelatedOrderID *string
	Metadata       map[string]string
	IsRead         bool
	CreatedAt      time.Time
}

func NewNotification(recipientID string, ntype NotificationType, message string, relatedOrderID *string, metadata map[string]string) *Notification {
	return &Notification{
		RecipientID:    recipientID,
		Type:           ntype,
		Message:        message,
		RelatedOrderID: relatedOrderID,
		Metadata:       metadata,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}
}

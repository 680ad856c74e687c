package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/loopify/deal-service/internal/adapter/email"
	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/platform/logger"
	"github.com/loopify/deal-service/internal/repository"
)

// NotificationService owns notification state. Notify is only ever called
// by the order and report services; the HTTP surface exposes the read and
// read-state operations.
type NotificationService interface {
	Notify(ctx context.Context, recipientID string, ntype entity.NotificationType, message string, relatedOrderID *string, metadata map[string]string) (*entity.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, page, pageSize int) (*repository.ListNotificationsResult, error)
	MarkRead(ctx context.Context, notificationID, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, notificationID, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	users            repository.UserReader
	emailSender      email.EmailSender
	log              logger.Logger
}

// NewNotificationService builds the dispatcher. emailSender may be nil; in
// that case notifications stay in-app only.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	users repository.UserReader,
	emailSender email.EmailSender,
	log logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		users:            users,
		emailSender:      emailSender,
		log:              log,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID string, ntype entity.NotificationType, message string, relatedOrderID *string, metadata map[string]string) (*entity.Notification, error) {
	notification := entity.NewNotification(recipientID, ntype, message, relatedOrderID, metadata)

	id, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		s.log.Errorf("Failed to create %s notification for recipient %s: %v", ntype, recipientID, err)
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	notification.ID = id

	s.sendEmailCopy(ctx, notification)

	s.log.Infof("Notification %s (%s) created for recipient %s", id, ntype, recipientID)
	return notification, nil
}

// sendEmailCopy mirrors the notification to the recipient's inbox. Any
// failure here is logged and swallowed: the in-app notification is the
// record, email is a courtesy.
func (s *notificationService) sendEmailCopy(ctx context.Context, notification *entity.Notification) {
	if s.emailSender == nil {
		return
	}

	address, err := s.users.GetEmailByID(ctx, notification.RecipientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Failed to resolve email for recipient %s: %v", notification.RecipientID, err)
		}
		return
	}
	if address == "" {
		return
	}

	subject := "You have a new notification on Loopify"
	if err := s.emailSender.Send(ctx, []string{address}, subject, notification.Message); err != nil {
		s.log.Warnf("Failed to send email copy of notification %s to %s: %v", notification.ID, address, err)
	}
}

func (s *notificationService) ListForRecipient(ctx context.Context, recipientID string, page, pageSize int) (*repository.ListNotificationsResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	result, err := s.notificationRepo.ListByRecipient(ctx, recipientID, page, pageSize)
	if err != nil {
		s.log.Errorf("Failed to list notifications for recipient %s: %v", recipientID, err)
		return nil, fmt.Errorf("failed to retrieve notifications: %w", err)
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, recipientID string) error {
	err := s.notificationRepo.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.ErrNotificationNotFound
		}
		s.log.Errorf("Failed to mark notification %s read for recipient %s: %v", notificationID, recipientID, err)
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	affected, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		s.log.Errorf("Failed to mark all notifications read for recipient %s: %v", recipientID, err)
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	s.log.Infof("Marked %d notifications read for recipient %s", affected, recipientID)
	return affected, nil
}

func (s *notificationService) Delete(ctx context.Context, notificationID, recipientID string) error {
	err := s.notificationRepo.Delete(ctx, notificationID, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.ErrNotificationNotFound
		}
		s.log.Errorf("Failed to delete notification %s for recipient %s: %v", notificationID, recipientID, err)
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		s.log.Errorf("Failed to count unread notifications for recipient %s: %v", recipientID, err)
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

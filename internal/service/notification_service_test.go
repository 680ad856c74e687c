package service

import (
	"context"
	"errors"
	"testing"

	"github.com/loopify/deal-service/internal/domain/entity"
	"github.com/loopify/deal-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationService_Notify_Success(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.RecipientID == "seller1" && n.Type == entity.NotificationOrderRequest && !n.IsRead
	})).Return("notif1", nil).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	orderID := "order1"
	notification, err := svc.Notify(context.Background(), "seller1", entity.NotificationOrderRequest, "New order request", &orderID, map[string]string{"listing_id": "listing1"})

	assert.NoError(t, err)
	assert.Equal(t, "notif1", notification.ID)
	assert.False(t, notification.IsRead)
	assert.Equal(t, &orderID, notification.RelatedOrderID)
	mockRepo.AssertExpectations(t)
	// No email sender configured, so the user directory is never consulted.
	mockUsers.AssertNotCalled(t, "GetEmailByID", mock.Anything, mock.Anything)
}

func TestNotificationService_Notify_SendsEmailCopy(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)
	mockEmail := new(MockEmailSender)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return("notif1", nil).Once()
	mockUsers.On("GetEmailByID", mock.Anything, "buyer1").Return("buyer1@example.com", nil).Once()
	mockEmail.On("Send", mock.Anything, []string{"buyer1@example.com"}, mock.Anything, "Your order was accepted").Return(nil).Once()

	svc := NewNotificationService(mockRepo, mockUsers, mockEmail, NewNoOpLogger())

	_, err := svc.Notify(context.Background(), "buyer1", entity.NotificationOrderStatusChange, "Your order was accepted", nil, nil)

	assert.NoError(t, err)
	mockEmail.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestNotificationService_Notify_EmailFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)
	mockEmail := new(MockEmailSender)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return("notif1", nil).Once()
	mockUsers.On("GetEmailByID", mock.Anything, "buyer1").Return("buyer1@example.com", nil).Once()
	mockEmail.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	svc := NewNotificationService(mockRepo, mockUsers, mockEmail, NewNoOpLogger())

	notification, err := svc.Notify(context.Background(), "buyer1", entity.NotificationOrderStatusChange, "Your order was accepted", nil, nil)

	assert.NoError(t, err)
	assert.NotNil(t, notification)
	mockEmail.AssertExpectations(t)
}

func TestNotificationService_Notify_RecipientWithoutEmail(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)
	mockEmail := new(MockEmailSender)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return("notif1", nil).Once()
	mockUsers.On("GetEmailByID", mock.Anything, "buyer1").Return("", repository.ErrNotFound).Once()

	svc := NewNotificationService(mockRepo, mockUsers, mockEmail, NewNoOpLogger())

	_, err := svc.Notify(context.Background(), "buyer1", entity.NotificationOrderStatusChange, "Your order was accepted", nil, nil)

	assert.NoError(t, err)
	mockEmail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_ListForRecipient_DefaultsPagination(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	result := &repository.ListNotificationsResult{
		Notifications: []entity.Notification{{ID: "notif1", RecipientID: "user1"}},
		TotalCount:    1,
		UnreadCount:   1,
	}
	mockRepo.On("ListByRecipient", mock.Anything, "user1", 1, 10).Return(result, nil).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	got, err := svc.ListForRecipient(context.Background(), "user1", 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalCount)
	assert.Equal(t, int64(1), got.UnreadCount)
	mockRepo.AssertExpectations(t)
}

func TestNotificationService_MarkRead_NotOwnedLooksMissing(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	mockRepo.On("MarkRead", mock.Anything, "notif1", "intruder").Return(repository.ErrNotFound).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	err := svc.MarkRead(context.Background(), "notif1", "intruder")

	assert.ErrorIs(t, err, entity.ErrNotificationNotFound)
	mockRepo.AssertExpectations(t)
}

func TestNotificationService_MarkAllRead_ReturnsAffectedCount(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	mockRepo.On("MarkAllRead", mock.Anything, "user1").Return(int64(7), nil).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	affected, err := svc.MarkAllRead(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), affected)
	mockRepo.AssertExpectations(t)
}

func TestNotificationService_Delete_NotOwnedLooksMissing(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	mockRepo.On("Delete", mock.Anything, "notif1", "intruder").Return(repository.ErrNotFound).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	err := svc.Delete(context.Background(), "notif1", "intruder")

	assert.ErrorIs(t, err, entity.ErrNotificationNotFound)
	mockRepo.AssertExpectations(t)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	mockRepo := new(MockNotificationRepository)
	mockUsers := new(MockUserReader)

	mockRepo.On("CountUnread", mock.Anything, "user1").Return(int64(3), nil).Once()

	svc := NewNotificationService(mockRepo, mockUsers, nil, NewNoOpLogger())

	count, err := svc.UnreadCount(context.Background(), "user1")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	mockRepo.AssertExpectations(t)
}

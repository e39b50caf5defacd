package service

import (
	"context"
	"time"

	"airtecs/internal/models"
	"airtecs/internal/repository"
)

// NotificationService reads and maintains a user's stored notifications.
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewUnavailableError("notification store unavailable", err)
	}
	return list, nil
}

// MarkRead marks the given notifications as read and returns how many rows
// changed. IDs belonging to other users are ignored.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("No notification ids given")
	}
	updated, err := s.notifications.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, models.NewUnavailableError("notification store unavailable", err)
	}
	return updated, nil
}

// PurgeExpired drops notifications past their retention window.
func (s *NotificationService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.notifications.DeleteExpired(ctx, now)
	if err != nil {
		return 0, models.NewUnavailableError("notification store unavailable", err)
	}
	return deleted, nil
}

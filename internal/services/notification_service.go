package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yukikurage/helpdesk-api/internal/logger"
	"github.com/yukikurage/helpdesk-api/internal/models"
	"github.com/yukikurage/helpdesk-api/internal/notify"
	"github.com/yukikurage/helpdesk-api/internal/repository"
)

// NotificationService stores, lists and publishes user notifications.
type NotificationService struct {
	repo      repository.NotificationRepository
	publisher notify.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewNotificationService creates a new NotificationService. A nil publisher
// disables real-time delivery.
func NewNotificationService(repo repository.NotificationRepository, publisher notify.Publisher, log *slog.Logger) *NotificationService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log, "notifications"),
		now:       time.Now,
	}
}

// CreateNotificationInput describes a notification addressed to one user.
type CreateNotificationInput struct {
	UserID   uint64
	TicketID *uint64
	Type     models.NotificationType
	Message  string
}

// Create stores a notification and publishes it.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error) {
	notificationType := input.Type
	if !notificationType.Valid() {
		notificationType = models.NotificationInfo
	}

	notification := &models.Notification{
		Message:   input.Message,
		Type:      notificationType,
		UserID:    input.UserID,
		TicketID:  input.TicketID,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateNotification(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := s.publisher.Publish(ctx, *notification); err != nil {
		s.logger.Warn("notification publish failed",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
	}

	return notification, nil
}

// Emit is Create for side effects: failures are logged and swallowed so the
// triggering mutation stands.
func (s *NotificationService) Emit(ctx context.Context, input CreateNotificationInput) {
	if _, err := s.Create(ctx, input); err != nil {
		s.logger.Warn("notification dropped",
			"user_id", input.UserID,
			"message", input.Message,
			"error", err,
		)
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(userID uint64) ([]models.Notification, error) {
	notifications, err := s.repo.ListNotificationsByUser(userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListUnread returns a user's unread notifications, newest first.
func (s *NotificationService) ListUnread(userID uint64) ([]models.Notification, error) {
	notifications, err := s.repo.ListNotificationsByUser(userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

// MarkAsRead flips the read flag of one notification owned by userID.
// Notifications of other users are reported as missing.
func (s *NotificationService) MarkAsRead(userID, id uint64) error {
	if _, err := s.owned(userID, id); err != nil {
		return err
	}
	if err := s.repo.MarkNotificationRead(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllAsRead flips every unread notification of userID and returns how
// many changed. Zero changes is still success.
func (s *NotificationService) MarkAllAsRead(userID uint64) (int64, error) {
	changed, err := s.repo.MarkAllNotificationsRead(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return changed, nil
}

// Delete removes one notification owned by userID.
func (s *NotificationService) Delete(userID, id uint64) error {
	if _, err := s.owned(userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteNotification(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// owned is a separate read from the write that follows it. A notification
// deleted in between makes the write report ErrNotFound, which callers map to
// ErrNotificationNotFound; nothing here holds the row between the two calls.
func (s *NotificationService) owned(userID, id uint64) (*models.Notification, error) {
	notification, err := s.repo.FindNotificationByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	if notification.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	return notification, nil
}

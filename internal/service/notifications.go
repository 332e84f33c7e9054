package service

import (
	"context" // Request scoped operations
	"errors"  // Error inspection
	"time"    // Timestamps

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/repository" // Persistence

	"github.com/google/uuid" // Notification ids
	"github.com/samber/oops" // Coded errors
)

// Notification listing bounds
const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

// Notifier records a notification for a user
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind string, data domain.NotificationData) error
}

// NotificationService lists and updates user notifications
type NotificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a NotificationService
func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

// Notify stores a new unread notification
func (s *NotificationService) Notify(ctx context.Context, userID uint, kind string, data domain.NotificationData) error {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Data:      data,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return oops.Code("NOTIFICATION_CREATE_FAILED").With("user_id", userID).Wrap(err)
	}
	return nil
}

// List returns the newest notifications and the total unread count
func (s *NotificationService) List(ctx context.Context, userID uint, limit int, unreadOnly bool) ([]domain.Notification, int64, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	items, err := s.repo.List(ctx, userID, repository.NotificationQuery{Limit: limit, UnreadOnly: unreadOnly})
	if err != nil {
		return nil, 0, oops.Code("NOTIFICATION_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, oops.Code("NOTIFICATION_LIST_FAILED").With("user_id", userID).Wrap(err)
	}
	return items, unread, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, id string) error {
	err := s.repo.MarkRead(ctx, userID, id, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return oops.Code(CodeNotificationNotFound).Errorf("notification not found")
	}
	if err != nil {
		return oops.Code("NOTIFICATION_UPDATE_FAILED").With("notification_id", id).Wrap(err)
	}
	return nil
}

// MarkAllRead marks every notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.MarkAllRead(ctx, userID, s.now()); err != nil {
		return oops.Code("NOTIFICATION_UPDATE_FAILED").With("user_id", userID).Wrap(err)
	}
	return nil
}

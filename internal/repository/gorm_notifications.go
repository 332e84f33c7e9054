package repository

import (
	"context" // Request scoped operations
	"time"    // Timestamps

	"account_portal/internal/domain" // Domain models

	"gorm.io/gorm" // GORM ORM library
)

// GormNotificationRepository is the MySQL backed NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository wraps an open gorm connection
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// List returns the newest notifications of a user
func (r *GormNotificationRepository) List(ctx context.Context, userID uint, q NotificationQuery) ([]domain.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID) // Start building the query
	if q.UnreadOnly {
		query = query.Where("read_at IS NULL") // Filter unread
	}
	var items []domain.Notification
	if err := query.Order("created_at desc").Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountUnread counts notifications with no read_at
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&total).Error
	return total, err
}

// MarkRead marks one notification of the user as read
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID uint, id string, at time.Time) error {
	var n domain.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return translate(err)
	}
	if n.IsRead() {
		return nil // Already read
	}
	return r.db.WithContext(ctx).Model(&n).Update("read_at", at.UTC()).Error
}

// MarkAllRead marks every unread notification of the user as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]any{"read_at": at.UTC()}).Error
}

var _ UserRepository = (*GormUserRepository)(nil)
var _ NotificationRepository = (*GormNotificationRepository)(nil)

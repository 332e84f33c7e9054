// Package repository persists users, notifications and password reset tokens.
package repository

import (
	"context" // Request scoped operations
	"errors"  // Sentinel errors
	"time"    // Timestamps

	"account_portal/internal/domain" // Domain models
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an email is already taken by another user
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserRepository stores user accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user together with everything it owns
	Delete(ctx context.Context, id uint) error
}

// NotificationQuery filters a notification listing
type NotificationQuery struct {
	Limit      int  // Maximum number of items
	UnreadOnly bool // Only items with no read_at
}

// NotificationRepository stores per-user notifications
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID uint, q NotificationQuery) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	// MarkRead sets read_at if unset; ErrNotFound if the user does not own id
	MarkRead(ctx context.Context, userID uint, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) error
}

// ResetTokenStore keeps hashed password reset tokens, one per email
type ResetTokenStore interface {
	// Put replaces any token for email with tokenHash, expiring after ttl
	Put(ctx context.Context, email, tokenHash string, ttl time.Duration) error
	// Get returns the stored hash or ErrNotFound when missing or expired
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

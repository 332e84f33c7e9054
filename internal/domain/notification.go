package domain

import "time" // Timestamps

// Notification types raised by server-side events
const (
	NotificationEmailVerified   = "email_verified"
	NotificationPasswordChanged = "password_changed"
	NotificationAvatarUpdated   = "avatar_updated"
)

// NotificationData is the payload shown to the user
type NotificationData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notification Model
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`          // UUID
	UserID    uint             `gorm:"index;not null" json:"user_id"`         // Owning user
	Type      string           `gorm:"size:100;not null" json:"type"`         // Event type
	Data      NotificationData `gorm:"serializer:json;type:json" json:"data"` // Title and message
	ReadAt    *time.Time       `gorm:"index" json:"read_at"`                  // Nil while unread
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

// IsRead reports whether the notification was marked read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

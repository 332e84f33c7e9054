package domain

import (
	"crypto/sha1"  // Verification hash over the email address
	"encoding/hex" // Hex encoding for the hash
	"strings"      // String manipulation
	"time"         // Timestamps
)

// User Model
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`                       // Primary key
	Name            string         `gorm:"size:255;not null" json:"name"`              // Display name
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"` // Unique, lower-cased email
	Password        string         `gorm:"not null" json:"-"`                          // Bcrypt hash
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`                          // Nil until verified
	AvatarPath      *string        `gorm:"size:255" json:"avatar_path"`                // Storage key of the avatar
	Preferences     PreferenceSet  `gorm:"serializer:json;type:json" json:"-"`         // Sparse stored preferences
	Phone           *string        `gorm:"size:25" json:"phone"`                       // Profile fields
	Address         *string        `gorm:"size:255" json:"address"`
	JobTitle        *string        `gorm:"size:100" json:"job_title"`
	Location        *string        `gorm:"size:150" json:"location"`
	Bio             *string        `gorm:"size:500" json:"bio"`
	Notifications   []Notification `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Owned notifications
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// HasVerifiedEmail reports whether the user confirmed their email address
func (u *User) HasVerifiedEmail() bool {
	return u.EmailVerifiedAt != nil
}

// MarkEmailVerified stamps the verification time if not already set.
// It returns false when the user was already verified.
func (u *User) MarkEmailVerified(now time.Time) bool {
	if u.EmailVerifiedAt != nil {
		return false
	}
	t := now.UTC()
	u.EmailVerifiedAt = &t
	return true
}

// VerificationHash is the hash embedded in verification links
func (u *User) VerificationHash() string {
	return EmailHash(u.Email)
}

// EmailHash returns the sha1 hex digest of an email address
func EmailHash(email string) string {
	sum := sha1.Sum([]byte(email))
	return hex.EncodeToString(sum[:])
}

// NormalizeEmail trims and lower-cases an email so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

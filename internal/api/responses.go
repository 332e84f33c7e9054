package api

import (
	"time" // Timestamps

	"account_portal/internal/domain" // Domain models
)

// UserResponse is the public shape of a user
type UserResponse struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	EmailVerifiedAt *time.Time         `json:"email_verified_at"`
	AvatarURL       *string            `json:"avatar_url"` // Null without an avatar
	Phone           *string            `json:"phone"`
	Address         *string            `json:"address"`
	JobTitle        *string            `json:"job_title"`
	Location        *string            `json:"location"`
	Bio             *string            `json:"bio"`
	Preferences     domain.Preferences `json:"preferences"` // Resolved over defaults
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// avatarURLer resolves storage keys to public URLs
type avatarURLer interface {
	AvatarURL(user *domain.User) string
}

func newUserResponse(u *domain.User, avatars avatarURLer) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		Phone:           u.Phone,
		Address:         u.Address,
		JobTitle:        u.JobTitle,
		Location:        u.Location,
		Bio:             u.Bio,
		Preferences:     u.Preferences.Resolve(),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if avatars != nil {
		if url := avatars.AvatarURL(u); url != "" {
			resp.AvatarURL = &url
		}
	}
	return resp
}

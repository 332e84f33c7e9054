package api

import (
	"net/http" // HTTP status codes

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/middleware" // Auth context
	"account_portal/internal/service"    // Account operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// UpdateProfileRequest is the body of PUT /api/profile.
// Omitted optional fields are left unchanged; empty strings clear them.
type UpdateProfileRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=25"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	JobTitle *string `json:"job_title" binding:"omitempty,max=100"`
	Location *string `json:"location" binding:"omitempty,max=150"`
	Bio      *string `json:"bio" binding:"omitempty,max=500"`
}

// UpdatePreferencesRequest is the body of PUT /api/preferences; every key is optional
type UpdatePreferencesRequest struct {
	Theme              *string `json:"theme" binding:"omitempty,oneof=light dark"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
}

// UpdateProfileHandler saves profile fields; a new email must be verified again
func UpdateProfileHandler(profile *service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProfileRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := profile.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileInput{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
			JobTitle: req.JobTitle,
			Location: req.Location,
			Bio:      req.Bio,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		message := "Profile updated"
		if !user.HasVerifiedEmail() {
			message = "Profile updated. Please verify your new email address."
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "user": newUserResponse(user, profile)})
	}
}

// UploadAvatarHandler stores the multipart "avatar" file as the user's avatar
func UploadAvatarHandler(profile *service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("avatar")
		if err != nil {
			respondValidation(c, FieldErrors{"avatar": {"The avatar field is required."}})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		user, err := profile.UploadAvatar(c.Request.Context(), middleware.UserID(c), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Avatar updated",
			"avatar_url": profile.AvatarURL(user),
			"user":       newUserResponse(user, profile),
		})
	}
}

// GetPreferencesHandler returns the resolved preferences of the signed-in user
func GetPreferencesHandler(profile *service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		prefs, err := profile.Preferences(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"preferences": prefs})
	}
}

// UpdatePreferencesHandler merges the given keys over the stored preferences
func UpdatePreferencesHandler(profile *service.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePreferencesRequest
		if !bindJSON(c, &req) {
			return
		}
		prefs, err := profile.UpdatePreferences(c.Request.Context(), middleware.UserID(c), domain.PreferenceSet{
			Theme:              req.Theme,
			EmailNotifications: req.EmailNotifications,
			PushNotifications:  req.PushNotifications,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"preferences": prefs})
	}
}

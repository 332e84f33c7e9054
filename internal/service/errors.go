// Package service implements the account operations behind the HTTP API.
package service

import (
	"github.com/samber/oops" // Coded errors
)

// Error codes surfaced to the API layer
const (
	CodeInvalidCredentials   = "AUTH_INVALID_CREDENTIALS"
	CodeEmailNotVerified     = "AUTH_EMAIL_NOT_VERIFIED"
	CodeEmailTaken           = "AUTH_EMAIL_TAKEN"
	CodePasswordTooShort     = "AUTH_PASSWORD_TOO_SHORT"
	CodePasswordTooLong      = "AUTH_PASSWORD_TOO_LONG"
	CodeNameRequired         = "PROFILE_NAME_REQUIRED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeInvalidSignature     = "VERIFY_INVALID_SIGNATURE"
	CodeHashMismatch         = "VERIFY_HASH_MISMATCH"
	CodeInvalidResetToken    = "RESET_TOKEN_INVALID"
	CodeCurrentPassword      = "PASSWORD_CURRENT_MISMATCH"
	CodeInvalidPassword      = "PROFILE_INVALID_PASSWORD"
	CodeInvalidTheme         = "PREFERENCES_INVALID_THEME"
	CodeAvatarInvalid        = "AVATAR_INVALID"
	CodeAvatarTooLarge       = "AVATAR_TOO_LARGE"
	CodeNotificationNotFound = "NOTIFICATION_NOT_FOUND"
)

// Password length limits in bytes. Bcrypt refuses input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ErrorCode extracts the oops code from err, or "" for uncoded errors
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := any(oopsErr.Code()).(string)
	return code
}

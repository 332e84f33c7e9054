package service

import (
	"context"       // Request scoped operations
	"crypto/subtle" // Constant-time compare
	"errors"        // Error inspection
	"fmt"           // Formatting
	"net/url"       // Link building
	"strings"       // String manipulation
	"time"          // Token expiry

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/mailer"     // Outgoing mail
	"account_portal/internal/repository" // Persistence
	"account_portal/internal/session"    // Token generation

	"github.com/samber/oops"     // Coded errors
	"github.com/sirupsen/logrus" // Logging
)

// PasswordService handles forgotten passwords and password changes
type PasswordService struct {
	users      repository.UserRepository
	tokens     repository.ResetTokenStore
	mail       mailer.Mailer
	notifier   Notifier
	appURL     string
	ttl        time.Duration
	bcryptCost int
}

// NewPasswordService creates a PasswordService; reset tokens live for ttl
func NewPasswordService(users repository.UserRepository, tokens repository.ResetTokenStore, mail mailer.Mailer, notifier Notifier, appURL string, ttl time.Duration, bcryptCost int) *PasswordService {
	return &PasswordService{
		users:      users,
		tokens:     tokens,
		mail:       mail,
		notifier:   notifier,
		appURL:     strings.TrimRight(appURL, "/"),
		ttl:        ttl,
		bcryptCost: bcryptCost,
	}
}

// ResetURL is the link mailed for token; it redirects to the SPA reset page
func (s *PasswordService) ResetURL(token, email string) string {
	return s.appURL + "/reset-password/" + url.PathEscape(token) + "?email=" + url.QueryEscape(email)
}

// RequestReset mails a single-use reset token if email belongs to a user.
// Unknown emails get the same result so accounts cannot be enumerated.
func (s *PasswordService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").With("operation", "find user").Wrap(err)
	}

	token, err := session.GenerateToken()
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").With("operation", "generate token").Wrap(err)
	}
	if err := s.tokens.Put(ctx, user.Email, session.HashToken(token), s.ttl); err != nil {
		return oops.Code("RESET_REQUEST_FAILED").With("operation", "store token").Wrap(err)
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Reset Password Notification",
		Body: fmt.Sprintf("You are receiving this email because we received a password reset request for your account.\n\n%s\n\nThis password reset link will expire in %d minutes.\nIf you did not request a password reset, no further action is required.\n",
			s.ResetURL(token, user.Email), int(s.ttl.Minutes())),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to send password reset email")
	}
	return nil
}

// ResetPassword consumes token and sets a new password for email.
// The token is burned before the password is written.
func (s *PasswordService) ResetPassword(ctx context.Context, token, email, newPassword string) (*domain.User, error) {
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}
	invalid := oops.Code(CodeInvalidResetToken).Errorf("invalid or expired password reset token")
	if token == "" {
		return nil, invalid
	}

	stored, err := s.tokens.Get(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, oops.Code("RESET_PASSWORD_FAILED").With("operation", "load token").Wrap(err)
	}
	if subtle.ConstantTimeCompare([]byte(session.HashToken(token)), []byte(stored)) != 1 {
		return nil, invalid
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, oops.Code("RESET_PASSWORD_FAILED").With("operation", "find user").Wrap(err)
	}

	if err := s.tokens.Delete(ctx, email); err != nil {
		return nil, oops.Code("RESET_PASSWORD_FAILED").With("operation", "delete token").Wrap(err)
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password reset")
	return user, nil
}

// UpdatePassword changes the password of a signed-in user after checking the current one
func (s *PasswordService) UpdatePassword(ctx context.Context, userID uint, current, newPassword string) error {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.Password, current) {
		return oops.Code(CodeCurrentPassword).With("user_id", userID).Errorf("current password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, newPassword); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password updated")
	return nil
}

func (s *PasswordService) setPassword(ctx context.Context, user *domain.User, password string) error {
	hash, err := hashPassword(password, s.bcryptCost)
	if err != nil {
		return oops.Code("PASSWORD_UPDATE_FAILED").With("operation", "hash password").Wrap(err)
	}
	user.Password = hash
	if err := s.users.Update(ctx, user); err != nil {
		return oops.Code("PASSWORD_UPDATE_FAILED").With("operation", "update user").Wrap(err)
	}
	if s.notifier != nil {
		err := s.notifier.Notify(ctx, user.ID, domain.NotificationPasswordChanged, domain.NotificationData{
			Title:   "Password changed",
			Message: "Your password was changed. If this wasn't you, reset it immediately.",
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Warn("Failed to record notification")
		}
	}
	return nil
}

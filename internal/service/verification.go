package service

import (
	"context"       // Request scoped operations
	"crypto/subtle" // Constant-time compare
	"errors"        // Error inspection
	"fmt"           // Formatting
	"net/url"       // Link building
	"strconv"       // Id formatting
	"strings"       // String manipulation
	"time"          // Link expiry

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/mailer"     // Outgoing mail
	"account_portal/internal/repository" // Persistence
	"account_portal/internal/utils"      // Link signing

	"github.com/samber/oops"     // Coded errors
	"github.com/sirupsen/logrus" // Logging
)

// VerificationService issues and checks signed email verification links
type VerificationService struct {
	users    repository.UserRepository
	mail     mailer.Mailer
	notifier Notifier
	appURL   string
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

// NewVerificationService creates a VerificationService.
// Links point at appURL and stay valid for ttl.
func NewVerificationService(users repository.UserRepository, mail mailer.Mailer, notifier Notifier, appURL, secret string, ttl time.Duration) *VerificationService {
	return &VerificationService{
		users:    users,
		mail:     mail,
		notifier: notifier,
		appURL:   strings.TrimRight(appURL, "/"),
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

// VerificationURL builds the signed link for user
func (s *VerificationService) VerificationURL(user *domain.User) (string, error) {
	hash := user.VerificationHash()
	sig, err := utils.SignLink(user.ID, hash, s.secret, s.ttl, s.now())
	if err != nil {
		return "", oops.Code("VERIFY_SIGN_FAILED").With("user_id", user.ID).Wrap(err)
	}
	id := strconv.FormatUint(uint64(user.ID), 10)
	return s.appURL + "/api/email/verify/" + id + "/" + hash + "?signature=" + url.QueryEscape(sig), nil
}

// Send mails a fresh verification link to user
func (s *VerificationService) Send(ctx context.Context, user *domain.User) error {
	link, err := s.VerificationURL(user)
	if err != nil {
		return err
	}
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Verify Email Address",
		Body: fmt.Sprintf("Hello %s,\n\nPlease click the link below to verify your email address.\n\n%s\n\nThis link expires in %d minutes.\nIf you did not create an account, no further action is required.\n",
			user.Name, link, int(s.ttl.Minutes())),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return oops.Code("VERIFY_MAIL_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return nil
}

// Verify checks a link and marks the user verified.
// Verifying an already verified user succeeds without changes.
func (s *VerificationService) Verify(ctx context.Context, id uint, hash, signature string) (*domain.User, error) {
	if err := utils.VerifyLink(signature, id, hash, s.secret, s.now()); err != nil {
		return nil, oops.Code(CodeInvalidSignature).With("user_id", id).Errorf("invalid or expired verification link")
	}
	user, err := findUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(user.VerificationHash())) != 1 {
		return nil, oops.Code(CodeHashMismatch).With("user_id", id).Errorf("invalid verification hash")
	}
	if !user.MarkEmailVerified(s.now()) {
		return user, nil // Already verified
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, oops.Code("VERIFY_UPDATE_FAILED").With("user_id", id).Wrap(err)
	}
	logrus.WithFields(logrus.Fields{"user_id": id}).Info("Email verified")
	s.notify(ctx, user.ID, domain.NotificationEmailVerified, domain.NotificationData{
		Title:   "Email verified",
		Message: "Your email address has been verified.",
	})
	return user, nil
}

// Resend mails a new link if email belongs to an unverified user.
// The outcome is the same for unknown addresses.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return oops.Code("VERIFY_RESEND_FAILED").With("operation", "find user").Wrap(err)
	}
	if user.HasVerifiedEmail() {
		return nil
	}
	if err := s.Send(ctx, user); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to resend verification email")
	}
	return nil
}

// SendForUser mails a new link to the user unless already verified.
// It reports whether a link was sent.
func (s *VerificationService) SendForUser(ctx context.Context, userID uint) (bool, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return false, err
	}
	if user.HasVerifiedEmail() {
		return false, nil
	}
	if err := s.Send(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

func (s *VerificationService) notify(ctx context.Context, userID uint, kind string, data domain.NotificationData) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, data); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "type": kind, "error": err.Error()}).Warn("Failed to record notification")
	}
}

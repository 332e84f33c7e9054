package service

import (
	"bytes"   // Buffered upload
	"context" // Request scoped operations
	"errors"  // Error inspection
	"io"      // Streams
	"strings" // String manipulation

	"account_portal/internal/domain"     // Domain models
	"account_portal/internal/repository" // Persistence
	"account_portal/internal/storage"    // Avatar files

	"github.com/gabriel-vasile/mimetype" // Content sniffing
	"github.com/google/uuid"             // File names
	"github.com/samber/oops"             // Coded errors
	"github.com/sirupsen/logrus"         // Logging
)

// avatarTypes maps accepted image types to the stored file extension
var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProfileService reads and updates the signed-in user's account
type ProfileService struct {
	users          repository.UserRepository
	disk           storage.Disk
	verification   *VerificationService
	notifier       Notifier
	maxAvatarBytes int64
}

// NewProfileService creates a ProfileService; avatars above maxAvatarBytes are rejected
func NewProfileService(users repository.UserRepository, disk storage.Disk, verification *VerificationService, notifier Notifier, maxAvatarBytes int64) *ProfileService {
	return &ProfileService{
		users:          users,
		disk:           disk,
		verification:   verification,
		notifier:       notifier,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// ProfileInput holds profile changes. Name and Email are always applied;
// nil optional fields are left unchanged and empty ones are cleared.
type ProfileInput struct {
	Name     string
	Email    string
	Phone    *string
	Address  *string
	JobTitle *string
	Location *string
	Bio      *string
}

// UpdateProfile applies in. A changed email drops verification and mails a new link.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*domain.User, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return nil, err
	}
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	email := domain.NormalizeEmail(in.Email)
	emailChanged := email != user.Email
	if emailChanged {
		user.Email = email
		user.EmailVerifiedAt = nil // Must verify the new address
	}
	applyOptional(&user.Phone, in.Phone)
	applyOptional(&user.Address, in.Address)
	applyOptional(&user.JobTitle, in.JobTitle)
	applyOptional(&user.Location, in.Location)
	applyOptional(&user.Bio, in.Bio)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, oops.Code(CodeEmailTaken).Errorf("email already taken")
		}
		return nil, oops.Code("PROFILE_UPDATE_FAILED").With("user_id", userID).Wrap(err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "email_changed": emailChanged}).Info("Profile updated")

	if emailChanged && s.verification != nil {
		if err := s.verification.Send(ctx, user); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to send verification email")
		}
	}
	return user, nil
}

func applyOptional(field **string, value *string) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		*field = nil
		return
	}
	*field = &v
}

// Preferences returns the user's preferences merged over the defaults
func (s *ProfileService) Preferences(ctx context.Context, userID uint) (domain.Preferences, error) {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return domain.Preferences{}, err
	}
	return user.Preferences.Resolve(), nil
}

// UpdatePreferences merges patch over the stored preferences
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uint, patch domain.PreferenceSet) (domain.Preferences, error) {
	if patch.Theme != nil && !domain.IsValidTheme(*patch.Theme) {
		return domain.Preferences{}, oops.Code(CodeInvalidTheme).With("theme", *patch.Theme).Errorf("theme must be light or dark")
	}
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return domain.Preferences{}, err
	}
	user.Preferences = user.Preferences.Merge(patch)
	if err := s.users.Update(ctx, user); err != nil {
		return domain.Preferences{}, oops.Code("PREFERENCES_UPDATE_FAILED").With("user_id", userID).Wrap(err)
	}
	return user.Preferences.Resolve(), nil
}

// UploadAvatar stores r as the user's avatar and removes the previous file
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uint, r io.Reader) (*domain.User, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxAvatarBytes+1))
	if err != nil {
		return nil, oops.Code("AVATAR_UPLOAD_FAILED").With("operation", "read upload").Wrap(err)
	}
	if int64(len(data)) > s.maxAvatarBytes {
		return nil, oops.Code(CodeAvatarTooLarge).With("max_bytes", s.maxAvatarBytes).Errorf("avatar is too large")
	}
	mime := mimetype.Detect(data)
	ext, ok := avatarTypes[mime.String()]
	if len(data) == 0 || !ok {
		return nil, oops.Code(CodeAvatarInvalid).With("mime", mime.String()).Errorf("avatar must be a jpeg, png, gif or webp image")
	}

	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	key := "avatars/" + uuid.NewString() + ext
	if err := s.disk.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mime.String()); err != nil {
		return nil, oops.Code("AVATAR_UPLOAD_FAILED").With("operation", "store file").Wrap(err)
	}
	previous := user.AvatarPath
	user.AvatarPath = &key
	if err := s.users.Update(ctx, user); err != nil {
		_ = s.disk.Delete(ctx, key) // Do not leave an orphan behind
		return nil, oops.Code("AVATAR_UPLOAD_FAILED").With("operation", "update user").Wrap(err)
	}
	if previous != nil && *previous != "" {
		if err := s.disk.Delete(ctx, *previous); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "path": *previous, "error": err.Error()}).Warn("Failed to delete previous avatar")
		}
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "path": key}).Info("Avatar updated")

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, userID, domain.NotificationAvatarUpdated, domain.NotificationData{
			Title:   "Avatar updated",
			Message: "Your profile picture was changed.",
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to record notification")
		}
	}
	return user, nil
}

// AvatarURL is the public address of the user's avatar, or "" if none
func (s *ProfileService) AvatarURL(user *domain.User) string {
	if user.AvatarPath == nil || *user.AvatarPath == "" {
		return ""
	}
	return s.disk.URL(*user.AvatarPath)
}

// DeleteAccount removes the user after confirming their password
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := findUser(ctx, s.users, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.Password, password) {
		return oops.Code(CodeInvalidPassword).With("user_id", userID).Errorf("password is incorrect")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return oops.Code("ACCOUNT_DELETE_FAILED").With("user_id", userID).Wrap(err)
	}
	if user.AvatarPath != nil && *user.AvatarPath != "" {
		if err := s.disk.Delete(ctx, *user.AvatarPath); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Failed to delete avatar of deleted account")
		}
	}
	logrus.WithFields(logrus.Fields{"user_id": userID}).Info("Account deleted")
	return nil
}

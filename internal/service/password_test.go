package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"account_portal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetToken requests a reset for email and returns the mailed token
func resetToken(t *testing.T, f *fixture, email string) string {
	t.Helper()
	require.NoError(t, f.passwords.RequestReset(context.Background(), email))
	link := linkIn(t, f.mail.last(t))
	require.True(t, strings.HasPrefix(link.Path, "/reset-password/"))
	assert.Equal(t, email, link.Query().Get("email"))
	return strings.TrimPrefix(link.Path, "/reset-password/")
}

func TestPasswordService_RequestReset(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "jane@example.com", "secret-pass", true)
	before := f.mail.count()

	require.NoError(t, f.passwords.RequestReset(context.Background(), "nobody@example.com"))
	assert.Equal(t, before, f.mail.count(), "unknown email must not send mail")

	token := resetToken(t, f, "jane@example.com")
	assert.Len(t, token, 64)
}

func TestPasswordService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token sets password once", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t, "jane@example.com", "secret-pass", true)
		token := resetToken(t, f, "jane@example.com")

		got, err := f.passwords.ResetPassword(ctx, token, "jane@example.com", "brand-new-pass")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = f.auth.Authenticate(ctx, "jane@example.com", "brand-new-pass")
		require.NoError(t, err)
		_, err = f.auth.Authenticate(ctx, "jane@example.com", "secret-pass")
		requireCode(t, err, CodeInvalidCredentials)

		_, err = f.passwords.ResetPassword(ctx, token, "jane@example.com", "another-pass")
		requireCode(t, err, CodeInvalidResetToken)

		items, _, err := f.notifications.List(ctx, u.ID, 0, false)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.NotificationPasswordChanged, items[0].Type)
	})

	t.Run("overlong password keeps the token", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", true)
		token := resetToken(t, f, "jane@example.com")

		_, err := f.passwords.ResetPassword(ctx, token, "jane@example.com", strings.Repeat("a", MaxPasswordLength+1))
		requireCode(t, err, CodePasswordTooLong)

		_, err = f.passwords.ResetPassword(ctx, token, "jane@example.com", "brand-new-pass")
		require.NoError(t, err)
	})

	t.Run("newer request replaces older token", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", true)
		old := resetToken(t, f, "jane@example.com")
		fresh := resetToken(t, f, "jane@example.com")

		_, err := f.passwords.ResetPassword(ctx, old, "jane@example.com", "brand-new-pass")
		requireCode(t, err, CodeInvalidResetToken)
		_, err = f.passwords.ResetPassword(ctx, fresh, "jane@example.com", "brand-new-pass")
		require.NoError(t, err)
	})

	t.Run("token for another email", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", true)
		f.createUser(t, "john@example.com", "secret-pass", true)
		token := resetToken(t, f, "jane@example.com")

		_, err := f.passwords.ResetPassword(ctx, token, "john@example.com", "brand-new-pass")
		requireCode(t, err, CodeInvalidResetToken)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", true)
		token := resetToken(t, f, "jane@example.com")
		f.mr.FastForward(2 * time.Hour)

		_, err := f.passwords.ResetPassword(ctx, token, "jane@example.com", "brand-new-pass")
		requireCode(t, err, CodeInvalidResetToken)
	})

	t.Run("short password keeps token", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", true)
		token := resetToken(t, f, "jane@example.com")

		_, err := f.passwords.ResetPassword(ctx, token, "jane@example.com", "short")
		requireCode(t, err, CodePasswordTooShort)
		_, err = f.passwords.ResetPassword(ctx, token, "jane@example.com", "long-enough")
		require.NoError(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.passwords.ResetPassword(ctx, "", "jane@example.com", "brand-new-pass")
		requireCode(t, err, CodeInvalidResetToken)
	})
}

func TestPasswordService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "jane@example.com", "secret-pass", true)

	err := f.passwords.UpdatePassword(ctx, u.ID, "wrong-pass", "brand-new-pass")
	requireCode(t, err, CodeCurrentPassword)

	err = f.passwords.UpdatePassword(ctx, u.ID, "secret-pass", "short")
	requireCode(t, err, CodePasswordTooShort)

	err = f.passwords.UpdatePassword(ctx, u.ID, "secret-pass", strings.Repeat("a", MaxPasswordLength+1))
	requireCode(t, err, CodePasswordTooLong)

	require.NoError(t, f.passwords.UpdatePassword(ctx, u.ID, "secret-pass", "brand-new-pass"))
	_, err = f.auth.Authenticate(ctx, "jane@example.com", "brand-new-pass")
	require.NoError(t, err)
}

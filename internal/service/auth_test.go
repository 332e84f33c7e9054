package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates unverified user and mails a link", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.auth.Register(ctx, RegisterInput{Name: " Jane ", Email: "Jane@Example.com", Password: "secret-pass"})
		require.NoError(t, err)

		assert.Equal(t, "Jane", u.Name)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.False(t, u.HasVerifiedEmail())
		assert.NotEqual(t, "secret-pass", u.Password)

		msg := f.mail.last(t)
		assert.Equal(t, "jane@example.com", msg.To)
		assert.Contains(t, linkIn(t, msg).Path, "/api/email/verify/")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.createUser(t, "jane@example.com", "secret-pass", false)
		_, err := f.auth.Register(ctx, RegisterInput{Name: "Other", Email: "JANE@example.com", Password: "secret-pass"})
		requireCode(t, err, CodeEmailTaken)
	})

	t.Run("rejects short password", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "short"})
		requireCode(t, err, CodePasswordTooShort)
	})

	t.Run("rejects password past the bcrypt limit", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: strings.Repeat("ü", 37)})
		requireCode(t, err, CodePasswordTooLong)

		_, err = f.auth.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: strings.Repeat("a", MaxPasswordLength)})
		require.NoError(t, err, "exactly 72 bytes is accepted")
	})

	t.Run("rejects blank name", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(ctx, RegisterInput{Name: " \t\n", Email: "jane@example.com", Password: "secret-pass"})
		requireCode(t, err, CodeNameRequired)
		assert.Zero(t, f.mail.count())
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	verified := f.createUser(t, "verified@example.com", "secret-pass", true)
	unverified := f.createUser(t, "pending@example.com", "secret-pass", false)

	t.Run("verified user", func(t *testing.T) {
		u, err := f.auth.Authenticate(ctx, "Verified@example.com", "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, verified.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		u, err := f.auth.Authenticate(ctx, "verified@example.com", "wrong-pass")
		requireCode(t, err, CodeInvalidCredentials)
		assert.Nil(t, u)
	})

	t.Run("unknown email", func(t *testing.T) {
		u, err := f.auth.Authenticate(ctx, "nobody@example.com", "secret-pass")
		requireCode(t, err, CodeInvalidCredentials)
		assert.Nil(t, u)
	})

	t.Run("unverified user is distinguishable", func(t *testing.T) {
		u, err := f.auth.Authenticate(ctx, "pending@example.com", "secret-pass")
		requireCode(t, err, CodeEmailNotVerified)
		require.NotNil(t, u)
		assert.Equal(t, unverified.ID, u.ID)
	})

	t.Run("unverified user with wrong password is just invalid", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, "pending@example.com", "wrong-pass")
		requireCode(t, err, CodeInvalidCredentials)
	})
}

func TestAuthService_User(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "jane@example.com", "secret-pass", true)

	got, err := f.auth.User(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.auth.User(context.Background(), 999)
	requireCode(t, err, CodeUserNotFound)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "", ErrorCode(assert.AnError))
}

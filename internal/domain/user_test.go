package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_MarkEmailVerifiedIsIdempotent(t *testing.T) {
	u := &User{Email: "a@example.com"}
	assert.False(t, u.HasVerifiedEmail())

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.True(t, u.MarkEmailVerified(first))
	assert.False(t, u.MarkEmailVerified(first.Add(time.Hour)))
	assert.Equal(t, first, *u.EmailVerifiedAt)
}

func TestEmailHash(t *testing.T) {
	assert.Len(t, EmailHash("a@example.com"), 40)
	assert.NotEqual(t, EmailHash("a@example.com"), EmailHash("b@example.com"))
	assert.Equal(t, EmailHash("a@example.com"), (&User{Email: "a@example.com"}).VerificationHash())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestVerifyLink(t *testing.T) {
	now := time.Now()
	sig, err := SignLink(7, "abc", testSecret, time.Hour, now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sig     string
		userID  uint
		hash    string
		secret  string
		at      time.Time
		wantErr bool
	}{
		{name: "valid", sig: sig, userID: 7, hash: "abc", secret: testSecret, at: now},
		{name: "empty signature", sig: "", userID: 7, hash: "abc", secret: testSecret, at: now, wantErr: true},
		{name: "other user id", sig: sig, userID: 8, hash: "abc", secret: testSecret, at: now, wantErr: true},
		{name: "other hash", sig: sig, userID: 7, hash: "abd", secret: testSecret, at: now, wantErr: true},
		{name: "wrong secret", sig: sig, userID: 7, hash: "abc", secret: "other", at: now, wantErr: true},
		{name: "expired", sig: sig, userID: 7, hash: "abc", secret: testSecret, at: now.Add(2 * time.Hour), wantErr: true},
		{name: "garbage", sig: "not-a-token", userID: 7, hash: "abc", secret: testSecret, at: now, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyLink(tt.sig, tt.userID, tt.hash, tt.secret, tt.at)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSignature)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_KEY", "test-key")
	t.Setenv("FRONTEND_ORIGINS", "http://localhost:5173, https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, 120*time.Minute, cfg.SessionLifetime)
	assert.Equal(t, 60*time.Minute, cfg.VerificationExpire)
	assert.Equal(t, int64(2048), cfg.AvatarMaxKB)
	assert.Equal(t, 6, cfg.RateLimitPerMinute)
	assert.Len(t, cfg.FrontendOrigins, 2)
}

func TestLoad_RequiresAppKey(t *testing.T) {
	t.Setenv("APP_KEY", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsBadPattern(t *testing.T) {
	t.Setenv("APP_KEY", "k")
	t.Setenv("FRONTEND_ORIGIN_PATTERNS", "^http://(localhost")
	_, err := Load()
	require.Error(t, err)
}

func TestOriginMatcher(t *testing.T) {
	cfg := &Config{
		FrontendOrigins:        []string{"https://app.example.com/"},
		FrontendOriginPatterns: []string{`^http://localhost(:[0-9]+)?$`, `^http://192\.168\.[0-9]{1,3}\.[0-9]{1,3}(:[0-9]+)?$`},
	}
	allowed := cfg.OriginMatcher()

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.example.com", true},
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"http://192.168.2.118:8080", true},
		{"https://evil.example.com", false},
		{"http://localhost.evil.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, allowed(tt.origin))
		})
	}
}

func TestFrontendURL(t *testing.T) {
	t.Run("prefers local dev server", func(t *testing.T) {
		cfg := &Config{FrontendOrigins: []string{"https://app.example.com", "http://localhost:5173/"}}
		assert.Equal(t, "http://localhost:5173", cfg.FrontendURL())
	})
	t.Run("falls back to first origin", func(t *testing.T) {
		cfg := &Config{FrontendOrigins: []string{"https://app.example.com", "https://other.example.com"}}
		assert.Equal(t, "https://app.example.com", cfg.FrontendURL())
	})
	t.Run("falls back to app url", func(t *testing.T) {
		cfg := &Config{AppURL: "http://api.local/"}
		assert.Equal(t, "http://api.local", cfg.FrontendURL())
	})
}

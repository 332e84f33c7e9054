package service

import (
	"context"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"account_portal/internal/domain"
	"account_portal/internal/mailer"
	"account_portal/internal/repository"
	"account_portal/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last(t *testing.T) mailer.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected a mail to be sent")
	return m.sent[len(m.sent)-1]
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var linkPattern = regexp.MustCompile(`https?://\S+`)

// linkIn returns the first URL in a mail body
func linkIn(t *testing.T, msg mailer.Message) *url.URL {
	t.Helper()
	raw := linkPattern.FindString(msg.Body)
	require.NotEmpty(t, raw, "mail has no link")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

type fixture struct {
	store         *repository.MemoryStore
	users         repository.UserRepository
	mail          *recordingMailer
	mr            *miniredis.Miniredis
	disk          *storage.LocalDisk
	notifications *NotificationService
	verification  *VerificationService
	auth          *AuthService
	passwords     *PasswordService
	profile       *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := repository.NewMemoryStore()
	users := store.Users()
	mail := &recordingMailer{}
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/storage")
	require.NoError(t, err)

	notifications := NewNotificationService(store.Notifications())
	verification := NewVerificationService(users, mail, notifications, "http://api.test", testSecret, time.Hour)
	auth, err := NewAuthService(users, verification, bcrypt.MinCost)
	require.NoError(t, err)
	passwords := NewPasswordService(users, repository.NewRedisResetTokenStore(rdb), mail, notifications, "http://api.test", time.Hour, bcrypt.MinCost)
	profile := NewProfileService(users, disk, verification, notifications, 1024)

	return &fixture{
		store:         store,
		users:         users,
		mail:          mail,
		mr:            mr,
		disk:          disk,
		notifications: notifications,
		verification:  verification,
		auth:          auth,
		passwords:     passwords,
		profile:       profile,
	}
}

// createUser registers a user and optionally marks them verified
func (f *fixture) createUser(t *testing.T, email, password string, verified bool) *domain.User {
	t.Helper()
	ctx := context.Background()
	u, err := f.auth.Register(ctx, RegisterInput{Name: "Test User", Email: email, Password: password})
	require.NoError(t, err)
	if verified {
		u.MarkEmailVerified(time.Now())
		require.NoError(t, f.users.Update(ctx, u))
	}
	return u
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, ErrorCode(err), "unexpected error: %v", err)
}

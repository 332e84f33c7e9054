// Package session keeps server-side sessions in Redis.
//
// The cookie carries a random session id; Redis stores the record under the
// sha256 of that id so a leaked keyspace dump cannot be replayed as cookies.
// Every session, including guest sessions, carries the CSRF token that
// state-changing requests must echo back.
package session

import (
	"context"       // Context for Redis operations
	"crypto/rand"   // Token generation
	"crypto/sha256" // Key hashing
	"crypto/subtle" // Constant-time compare
	"encoding/hex"  // Hex encoding
	"encoding/json" // Record encoding
	"errors"        // Error values
	"fmt"           // Error wrapping
	"strconv"       // Key building
	"time"          // TTLs

	"github.com/redis/go-redis/v9" // Redis client
)

// TokenBytes is the entropy of session ids and CSRF tokens (64 hex chars)
const TokenBytes = 32

// ErrNotFound is returned for unknown or expired session ids
var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind a session cookie
type Session struct {
	ID           string    `json:"-"`             // Plaintext id, only ever sent in the cookie
	UserID       uint      `json:"user_id"`       // 0 for guest sessions
	CSRFToken    string    `json:"csrf_token"`    // Anti-forgery token
	CreatedAt    time.Time `json:"created_at"`    // Creation time
	LastActivity time.Time `json:"last_activity"` // Last time the session was loaded
}

// IsAuthenticated reports whether a user is bound to the session
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != 0
}

// ValidCSRF compares token against the session token in constant time
func (s *Session) ValidCSRF(token string) bool {
	if s == nil || token == "" || s.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.CSRFToken)) == 1
}

// Manager creates, loads, rotates and destroys sessions
type Manager struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

// NewManager creates a Manager whose sessions idle out after ttl
func NewManager(rdb redis.Cmdable, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, ttl: ttl, now: time.Now}
}

// TTL is the idle lifetime of a session
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start creates a new guest session with a fresh CSRF token
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	id, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	csrf, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	s := &Session{ID: id, CSRFToken: csrf, CreatedAt: now, LastActivity: now}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Load fetches a session by its cookie id and slides its expiry
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := m.rdb.Get(ctx, recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := &Session{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = id
	s.LastActivity = m.now().UTC()
	if err := m.touch(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Login binds userID to the session under a new id.
// The old id stops working; the CSRF token is kept.
func (m *Manager) Login(ctx context.Context, s *Session, userID uint) (*Session, error) {
	id, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	if err := m.destroy(ctx, s); err != nil {
		return nil, err
	}
	next := *s
	next.ID = id
	next.UserID = userID
	next.LastActivity = m.now().UTC()
	if err := m.save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Invalidate destroys s and returns a fresh guest session with a new CSRF token
func (m *Manager) Invalidate(ctx context.Context, s *Session) (*Session, error) {
	if s != nil {
		if err := m.destroy(ctx, s); err != nil {
			return nil, err
		}
	}
	return m.Start(ctx)
}

// RegenerateToken replaces the CSRF token of s
func (m *Manager) RegenerateToken(ctx context.Context, s *Session) error {
	csrf, err := GenerateToken()
	if err != nil {
		return err
	}
	s.CSRFToken = csrf
	return m.touch(ctx, s)
}

// DestroyUser removes every session bound to userID
func (m *Manager) DestroyUser(ctx context.Context, userID uint) error {
	idx := userIndexKey(userID)
	keys, err := m.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	keys = append(keys, idx)
	if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("destroy user sessions: %w", err)
	}
	return nil
}

// save writes a new record. Only Start and Login call it, always with a fresh id.
func (m *Manager) save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	key := recordKey(s.ID)
	pipe := m.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, m.ttl)
	if s.UserID != 0 {
		idx := userIndexKey(s.UserID)
		pipe.SAdd(ctx, idx, key)
		pipe.Expire(ctx, idx, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// touch rewrites an existing record and slides its expiry.
// SET XX never recreates a record destroyed since it was read.
func (m *Manager) touch(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	key := recordKey(s.ID)
	ok, err := m.rdb.SetXX(ctx, key, raw, m.ttl).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	if s.UserID == 0 {
		return nil
	}
	idx := userIndexKey(s.UserID)
	pipe := m.rdb.TxPipeline()
	pipe.SAdd(ctx, idx, key)
	pipe.Expire(ctx, idx, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("index session: %w", err)
	}
	return nil
}

func (m *Manager) destroy(ctx context.Context, s *Session) error {
	key := recordKey(s.ID)
	pipe := m.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if s.UserID != 0 {
		pipe.SRem(ctx, userIndexKey(s.UserID), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// GenerateToken returns TokenBytes of crypto randomness, hex encoded
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the sha256 hex digest of a token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func recordKey(id string) string {
	return "session:" + HashToken(id)
}

func userIndexKey(userID uint) string {
	return "user_sessions:" + strconv.FormatUint(uint64(userID), 10)
}

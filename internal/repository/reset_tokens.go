package repository

import (
	"context"       // Context for Redis operations
	"crypto/sha256" // Key derivation
	"encoding/hex"  // Hex encoding
	"errors"        // Error inspection
	"time"          // TTLs

	"account_portal/internal/domain" // Email normalization

	"github.com/redis/go-redis/v9" // Redis client
)

// RedisResetTokenStore keeps reset token hashes in Redis; expiry is the key TTL
type RedisResetTokenStore struct {
	rdb redis.Cmdable
}

// NewRedisResetTokenStore creates a store on the given client
func NewRedisResetTokenStore(rdb redis.Cmdable) *RedisResetTokenStore {
	return &RedisResetTokenStore{rdb: rdb}
}

func resetKey(email string) string {
	sum := sha256.Sum256([]byte(domain.NormalizeEmail(email)))
	return "password_reset:" + hex.EncodeToString(sum[:])
}

// Put replaces the token for email
func (s *RedisResetTokenStore) Put(ctx context.Context, email, tokenHash string, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKey(email), tokenHash, ttl).Err()
}

// Get returns the stored token hash
func (s *RedisResetTokenStore) Get(ctx context.Context, email string) (string, error) {
	val, err := s.rdb.Get(ctx, resetKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound // Missing or expired
	}
	return val, err
}

// Delete removes the token for email
func (s *RedisResetTokenStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, resetKey(email)).Err()
}

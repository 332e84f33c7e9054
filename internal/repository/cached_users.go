package repository

import (
	"context" // Context for Redis operations
	"strconv" // Key building
	"time"    // TTLs

	"account_portal/internal/domain" // Domain models
	"account_portal/internal/utils"  // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

// CachedUserRepository serves FindByID from Redis and invalidates on writes.
// Session-authenticated requests load the current user on every call.
type CachedUserRepository struct {
	UserRepository
	rdb redis.Cmdable
	ttl time.Duration
}

// NewCachedUserRepository wraps next with a read-through cache
func NewCachedUserRepository(next UserRepository, rdb redis.Cmdable, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{UserRepository: next, rdb: rdb, ttl: ttl}
}

// cachedUser carries the fields json-hidden on domain.User
type cachedUser struct {
	domain.User
	Password    string               `json:"password"`
	Preferences domain.PreferenceSet `json:"preferences"`
}

func userCacheKey(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}

// FindByID returns the cached user or loads and caches it
func (r *CachedUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var cached cachedUser
	found, err := utils.GetCache(ctx, r.rdb, userCacheKey(id), &cached)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": id, "error": err.Error()}).Warn("User cache read failed")
	}
	if err == nil && found {
		user := cached.User
		user.Password = cached.Password
		user.Preferences = cached.Preferences
		return &user, nil
	}
	user, err := r.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := cachedUser{User: *user, Password: user.Password, Preferences: user.Preferences}
	_ = utils.SetCache(ctx, r.rdb, userCacheKey(id), entry, r.ttl) // Best effort
	return user, nil
}

// Update writes through and drops the cached copy
func (r *CachedUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.UserRepository.Update(ctx, user); err != nil {
		return err
	}
	_ = utils.DeleteCache(ctx, r.rdb, userCacheKey(user.ID))
	return nil
}

// Delete removes the user and its cached copy
func (r *CachedUserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	_ = utils.DeleteCache(ctx, r.rdb, userCacheKey(id))
	return nil
}

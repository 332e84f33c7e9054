package repository

import (
	"context" // Request scoped operations
	"sort"    // Ordering notifications
	"sync"    // Mutex for concurrent handlers
	"time"    // Timestamps

	"account_portal/internal/domain" // Domain models
)

// MemoryStore is an in-process UserRepository and NotificationRepository.
// It backs DB_DRIVER=memory for local runs and the test suites.
type MemoryStore struct {
	mu            sync.RWMutex
	nextID        uint
	users         map[uint]domain.User
	notifications map[string]domain.Notification
	now           func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[uint]domain.User),
		notifications: make(map[string]domain.Notification),
		now:           time.Now,
	}
}

// Users exposes the store as a UserRepository
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Notifications exposes the store as a NotificationRepository
func (s *MemoryStore) Notifications() NotificationRepository { return memoryNotifications{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = domain.NormalizeEmail(user.Email)
	if r.s.emailTaken(user.Email, 0) {
		return ErrDuplicateEmail
	}
	r.s.nextID++
	now := r.s.now().UTC()
	user.ID = r.s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = domain.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.Email = domain.NormalizeEmail(user.Email)
	if r.s.emailTaken(user.Email, user.ID) {
		return ErrDuplicateEmail
	}
	user.UpdatedAt = r.s.now().UTC()
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r memoryUsers) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	for nid, n := range r.s.notifications {
		if n.UserID == id {
			delete(r.s.notifications, nid)
		}
	}
	return nil
}

// emailTaken must be called with mu held
func (s *MemoryStore) emailTaken(email string, exceptID uint) bool {
	for id, u := range s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

type memoryNotifications struct{ s *MemoryStore }

func (r memoryNotifications) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now().UTC()
	}
	r.s.notifications[n.ID] = *n
	return nil
}

func (r memoryNotifications) List(_ context.Context, userID uint, q NotificationQuery) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := make([]domain.Notification, 0)
	for _, n := range r.s.notifications {
		if n.UserID != userID || (q.UnreadOnly && n.IsRead()) {
			continue
		}
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}
	return items, nil
}

func (r memoryNotifications) CountUnread(_ context.Context, userID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead() {
			total++
		}
	}
	return total, nil
}

func (r memoryNotifications) MarkRead(_ context.Context, userID uint, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	if !n.IsRead() {
		t := at.UTC()
		n.ReadAt = &t
		r.s.notifications[id] = n
	}
	return nil
}

func (r memoryNotifications) MarkAllRead(_ context.Context, userID uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := at.UTC()
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead() {
			n.ReadAt = &t
			r.s.notifications[id] = n
		}
	}
	return nil
}

// cloneUser copies pointer fields so callers cannot mutate stored state
func cloneUser(u domain.User) domain.User {
	u.EmailVerifiedAt = cloneTime(u.EmailVerifiedAt)
	u.AvatarPath = cloneString(u.AvatarPath)
	u.Phone = cloneString(u.Phone)
	u.Address = cloneString(u.Address)
	u.JobTitle = cloneString(u.JobTitle)
	u.Location = cloneString(u.Location)
	u.Bio = cloneString(u.Bio)
	u.Preferences = domain.PreferenceSet{}.Merge(u.Preferences)
	u.Notifications = nil
	return u
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

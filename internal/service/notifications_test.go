package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"account_portal/internal/domain"
	"account_portal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(repository.NewMemoryStore().Notifications())
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Notify(ctx, 1, domain.NotificationAvatarUpdated, domain.NotificationData{Title: fmt.Sprintf("n%d", i)}))
	}
	require.NoError(t, svc.Notify(ctx, 2, domain.NotificationAvatarUpdated, domain.NotificationData{Title: "other"}))

	items, unread, err := svc.List(ctx, 1, 0, false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), unread)
	assert.Equal(t, "n2", items[0].Data.Title, "newest first")

	items, _, err = svc.List(ctx, 1, 2, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	t.Run("mark one read", func(t *testing.T) {
		all, _, err := svc.List(ctx, 1, 0, false)
		require.NoError(t, err)
		require.NoError(t, svc.MarkRead(ctx, 1, all[0].ID))

		unreadItems, unread, err := svc.List(ctx, 1, 0, true)
		require.NoError(t, err)
		assert.Len(t, unreadItems, 2)
		assert.Equal(t, int64(2), unread)
	})

	t.Run("foreign or unknown id", func(t *testing.T) {
		others, _, err := svc.List(ctx, 2, 0, false)
		require.NoError(t, err)
		require.Len(t, others, 1)
		requireCode(t, svc.MarkRead(ctx, 1, others[0].ID), CodeNotificationNotFound)
		requireCode(t, svc.MarkRead(ctx, 1, "missing"), CodeNotificationNotFound)
	})

	t.Run("mark all read", func(t *testing.T) {
		require.NoError(t, svc.MarkAllRead(ctx, 1))
		_, unread, err := svc.List(ctx, 1, 0, false)
		require.NoError(t, err)
		assert.Zero(t, unread)

		_, unread, err = svc.List(ctx, 2, 0, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})
}

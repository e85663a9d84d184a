package service

import (
	"context"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/inmem"
	"anoa.com/assignmenthub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "user_notifications:42", Channel(42))
}

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(inmem.NewNotificationRepository(), nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.CreateNotification(ctx, &entity.Notification{
			UserID: 7, ActorID: 1, Type: entity.NotificationSubmissionGraded, AssignmentID: 1, SubmissionID: uint(i + 1),
		}))
	}
	require.NoError(t, svc.CreateNotification(ctx, &entity.Notification{UserID: 8, Type: entity.NotificationSubmissionReceived}))

	list, err := svc.GetNotifications(ctx, 7, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, uint(3), list[0].SubmissionID, "newest first")

	unread, err := svc.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, svc.MarkAsRead(ctx, list[0].ID, 7))
	unread, _ = svc.UnreadCount(ctx, 7)
	assert.Equal(t, int64(2), unread)

	// Another user's notification cannot be marked.
	err = svc.MarkAsRead(ctx, list[1].ID, 8)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, svc.MarkAllAsRead(ctx, 7))
	unread, _ = svc.UnreadCount(ctx, 7)
	assert.Zero(t, unread)

	others, _ := svc.UnreadCount(ctx, 8)
	assert.Equal(t, int64(1), others)
}

func TestGetNotificationsClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(inmem.NewNotificationRepository(), nil)
	for i := 0; i < 25; i++ {
		require.NoError(t, svc.CreateNotification(ctx, &entity.Notification{UserID: 1}))
	}

	list, err := svc.GetNotifications(ctx, 1, 500, -3)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

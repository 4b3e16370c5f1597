package console

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/application/store"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/tests/testutil"
)

func newNotificationFixture(t *testing.T) (*NotificationService, *testutil.MockGateway, *store.Container) {
	t.Helper()
	gateway := &testutil.MockGateway{}
	container := store.New(zaptest.NewLogger(t))
	svc := NewNotificationService(gateway, container, zaptest.NewLogger(t))
	return svc, gateway, container
}

func TestNotificationService_Refresh(t *testing.T) {
	svc, gateway, container := newNotificationFixture(t)
	feed := []state.Notification{
		{ID: uuid.New(), Content: "Order shipped", Type: "order"},
		{ID: uuid.New(), Content: "Price drop on your wishlist", Type: "promo", IsRead: true},
	}
	gateway.On("Notifications", mock.Anything).
		Return(&state.NotificationPatch{Items: &feed}, nil)

	require.NoError(t, svc.Refresh(context.Background()))

	got := container.Notifications()
	require.Len(t, got.Items, 2)
	assert.Equal(t, 1, got.UnreadCount)
	assert.False(t, got.IsLoading)
	gateway.AssertExpectations(t)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, gateway, container := newNotificationFixture(t)
	target := state.Notification{ID: uuid.New(), Content: "Order shipped", Type: "order"}
	container.PushNotification(target)
	container.PushNotification(state.Notification{ID: uuid.New(), Content: "Price drop", Type: "promo"})

	gateway.On("MarkNotificationRead", mock.Anything, target.ID).Return(nil)

	require.NoError(t, svc.MarkRead(context.Background(), target.ID))

	got := container.Notifications()
	assert.Equal(t, 1, got.UnreadCount)
	assert.False(t, got.IsLoading, "confirming the mark ends the round-trip")
	gateway.AssertExpectations(t)
}

func TestNotificationService_MarkReadFailureLeavesFeed(t *testing.T) {
	svc, gateway, container := newNotificationFixture(t)
	target := state.Notification{ID: uuid.New(), Content: "Order shipped", Type: "order"}
	container.PushNotification(target)

	gateway.On("MarkNotificationRead", mock.Anything, target.ID).
		Return(&platform.RequestError{StatusCode: 500, Message: "Something went wrong."})

	err := svc.MarkRead(context.Background(), target.ID)
	require.Error(t, err)

	got := container.Notifications()
	assert.Equal(t, 1, got.UnreadCount, "the flip only happens after platform confirmation")
	assert.Equal(t, "Something went wrong.", got.Error)
	assert.False(t, got.IsLoading)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, gateway, container := newNotificationFixture(t)
	container.PushNotification(state.Notification{ID: uuid.New(), Content: "Order shipped"})
	container.PushNotification(state.Notification{ID: uuid.New(), Content: "Price drop"})

	gateway.On("MarkAllNotificationsRead", mock.Anything).Return(nil)

	require.NoError(t, svc.MarkAllRead(context.Background()))
	assert.Equal(t, 0, container.Notifications().UnreadCount)
}

func TestNotificationService_RefetchHook(t *testing.T) {
	t.Run("anonymous sessions skip the pull", func(t *testing.T) {
		svc, gateway, _ := newNotificationFixture(t)
		reg := &hookCapture{}
		svc.RegisterRefetch(reg)
		require.Contains(t, reg.names, "notifications")

		require.NoError(t, reg.fns["notifications"](context.Background()))
		gateway.AssertNotCalled(t, "Notifications", mock.Anything)
	})

	t.Run("authenticated sessions re-pull", func(t *testing.T) {
		svc, gateway, container := newNotificationFixture(t)
		container.CompleteAuth(state.Identity{ID: uuid.New(), Role: state.RoleCustomer}, "tok-live")
		empty := []state.Notification{}
		gateway.On("Notifications", mock.Anything).
			Return(&state.NotificationPatch{Items: &empty}, nil)

		reg := &hookCapture{}
		svc.RegisterRefetch(reg)
		require.NoError(t, reg.fns["notifications"](context.Background()))
		gateway.AssertExpectations(t)
	})
}

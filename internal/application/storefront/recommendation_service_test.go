package storefront

import (
	"context"
	"testing"
	"time"

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

func TestRecommendationService_Refresh(t *testing.T) {
	gateway := &testutil.MockGateway{}
	container := store.New(zaptest.NewLogger(t))
	svc := NewRecommendationService(gateway, container, zaptest.NewLogger(t))

	generated := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	feed := []state.RecommendedProduct{
		{ProductID: uuid.New(), Name: "Burr Grinder", Reason: "Pairs with your kettle", Score: 0.92},
	}
	gateway.On("Recommendations", mock.Anything).
		Return(&state.RecommendationPatch{Items: &feed, GeneratedAt: &generated}, nil)

	require.NoError(t, svc.Refresh(context.Background()))

	got := container.Recommendations()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Burr Grinder", got.Items[0].Name)
	assert.True(t, got.GeneratedAt.Equal(generated))
	assert.False(t, got.IsLoading)
	gateway.AssertExpectations(t)
}

func TestRecommendationService_RefreshFailure(t *testing.T) {
	gateway := &testutil.MockGateway{}
	container := store.New(zaptest.NewLogger(t))
	svc := NewRecommendationService(gateway, container, zaptest.NewLogger(t))

	gateway.On("Recommendations", mock.Anything).
		Return(nil, &platform.RequestError{StatusCode: 503, Message: "Recommendations are warming up."})

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Recommendations are warming up.", container.Recommendations().Error)
}

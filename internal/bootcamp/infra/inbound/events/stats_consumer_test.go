package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
)

type mockStats struct {
	mock.Mock
}

func (m *mockStats) RecomputeAverageCost(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockStats) RecomputeAverageRating(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func payload(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	evt, err := sharedEvents.NewIntegrationEvent(eventType, "k", data)
	require.NoError(t, err)
	raw, err := json.Marshal(evt)
	require.NoError(t, err)
	return raw
}

func TestStatsConsumer_CourseEvents(t *testing.T) {
	stats := &mockStats{}
	bootcampID := uuid.New()
	stats.On("RecomputeAverageCost", bootcampID).Return(nil).Times(3)
	c := NewStatsConsumer(stats, zap.NewNop())

	for _, typ := range []string{sharedEvents.CourseCreated, sharedEvents.CourseUpdated, sharedEvents.CourseDeleted} {
		c.HandleMessage(context.Background(), "k", payload(t, typ, sharedEvents.CourseChanged{ID: uuid.New(), BootcampID: bootcampID}))
	}
	stats.AssertExpectations(t)
	stats.AssertNotCalled(t, "RecomputeAverageRating", mock.Anything)
}

func TestStatsConsumer_ReviewEvents(t *testing.T) {
	stats := &mockStats{}
	bootcampID := uuid.New()
	stats.On("RecomputeAverageRating", bootcampID).Return(nil).Once()
	c := NewStatsConsumer(stats, zap.NewNop())

	c.HandleMessage(context.Background(), "", payload(t, sharedEvents.ReviewCreated, sharedEvents.ReviewChanged{ID: uuid.New(), BootcampID: bootcampID, Rating: 8}))
	stats.AssertExpectations(t)
}

func TestStatsConsumer_IgnoresGarbage(t *testing.T) {
	stats := &mockStats{}
	c := NewStatsConsumer(stats, zap.NewNop())

	assert.NotPanics(t, func() {
		c.HandleMessage(context.Background(), "", []byte("not json"))
		c.HandleMessage(context.Background(), "", payload(t, "user.created", map[string]string{"id": "x"}))
		c.HandleMessage(context.Background(), "", payload(t, sharedEvents.CourseCreated, "bad data"))
	})
	stats.AssertNotCalled(t, "RecomputeAverageCost", mock.Anything)
}

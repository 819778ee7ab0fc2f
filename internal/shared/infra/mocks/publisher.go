package mocks

import (
	"context"

	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	"github.com/stretchr/testify/mock"
)

// MockPublisher registra las publicaciones con testify/mock.
type MockPublisher struct {
	mock.Mock
}

var _ sharedBus.EventBus = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

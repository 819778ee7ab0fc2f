package mocks

import (
	"context"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockOutboxRepository simula el almacén del outbox.
type MockOutboxRepository struct {
	mock.Mock
}

var _ sharedDomain.OutboxRepository = (*MockOutboxRepository)(nil)

func (m *MockOutboxRepository) SaveOutbox(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]sharedDomain.OutboxEvent)
	return events, args.Error(1)
}

func (m *MockOutboxRepository) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

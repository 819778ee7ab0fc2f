package relayer

import (
	"context"
	"errors"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxPublisher publica en el bus y, si falla, aparca el evento en el outbox
// para que el Worker lo reintente.
type OutboxPublisher struct {
	next sharedBus.EventBus
	repo sharedDomain.OutboxRepository
	log  *zap.Logger
}

var _ sharedBus.EventBus = (*OutboxPublisher)(nil)

func NewOutboxPublisher(next sharedBus.EventBus, repo sharedDomain.OutboxRepository, log *zap.Logger) *OutboxPublisher {
	return &OutboxPublisher{next: next, repo: repo, log: log}
}

func (p *OutboxPublisher) Publish(ctx context.Context, event interface{}) error {
	err := p.next.Publish(ctx, event)
	if err == nil {
		return nil
	}
	evt, ok := event.(sharedEvents.IntegrationEvent)
	if !ok {
		return err
	}

	parked := sharedDomain.OutboxEvent{
		ID:        uuid.New(),
		EventType: evt.Type,
		Key:       evt.Key,
		Payload:   evt.Data,
		CreatedAt: evt.Timestamp,
	}
	if saveErr := p.repo.SaveOutbox(ctx, parked); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	p.log.Warn("Publish failed, event parked in outbox",
		zap.String("event_id", parked.ID.String()),
		zap.String("type", evt.Type),
		zap.Error(err))
	return nil
}

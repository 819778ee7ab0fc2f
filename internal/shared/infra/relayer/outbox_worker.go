package relayer

import (
	"context"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	"go.uber.org/zap"
)

// Worker reintenta periódicamente los eventos aparcados en el outbox.
type Worker struct {
	repo      sharedDomain.OutboxRepository
	publisher sharedBus.EventBus
	interval  time.Duration
	batchSize int
	log       *zap.Logger
}

// NewOutboxWorker recibe el bus real, no el OutboxPublisher, para no volver a aparcar.
func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	interval time.Duration,
	batchSize int,
	log *zap.Logger,
) *Worker {
	return &Worker{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
	}
}

// Start inicia el bucle de polling del worker; bloquea hasta que ctx se cancela.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("Outbox worker started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) {
	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("Failed to fetch pending outbox events", zap.Error(err))
		return
	}
	if len(events) > 0 {
		w.log.Info("Processing outbox events", zap.Int("count", len(events)))
	}

	for _, evt := range events {
		// Un fallo corta el lote: el broker sigue caído y se respeta el orden.
		if !w.publishAndMark(ctx, evt) {
			return
		}
	}
}

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) bool {
	integration := sharedEvents.IntegrationEvent{
		Type:      evt.EventType,
		Key:       evt.Key,
		Timestamp: evt.CreatedAt,
		Data:      evt.Payload,
	}
	if err := w.publisher.Publish(ctx, integration); err != nil {
		w.log.Warn("Outbox event still not publishable",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
		return false
	}

	if err := w.repo.MarkOutboxProcessed(ctx, evt.ID); err != nil {
		w.log.Warn("Failed to mark outbox event as processed",
			zap.String("event_id", evt.ID.String()),
			zap.Error(err),
		)
	}
	return true
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
)

const handleTimeout = 2 * time.Second

// StatsService es lo que el consumidor necesita del servicio de bootcamps.
type StatsService interface {
	RecomputeAverageCost(ctx context.Context, bootcampID uuid.UUID) error
	RecomputeAverageRating(ctx context.Context, bootcampID uuid.UUID) error
}

// StatsConsumer mantiene averageCost y averageRating al día a partir de los eventos
// de cursos y reseñas.
type StatsConsumer struct {
	service StatsService
	log     *zap.Logger
}

func NewStatsConsumer(service StatsService, log *zap.Logger) *StatsConsumer {
	return &StatsConsumer{service: service, log: log}
}

// HandleMessage implementa events.MessageHandler.
func (c *StatsConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.CourseCreated, sharedEvents.CourseUpdated, sharedEvents.CourseDeleted:
		sharedUtils.DecodePayload(c.log, base.Type, base.Data, func(evt sharedEvents.CourseChanged) {
			c.withTimeout(ctx, base.Type, evt.BootcampID, c.service.RecomputeAverageCost)
		})

	case sharedEvents.ReviewCreated, sharedEvents.ReviewUpdated, sharedEvents.ReviewDeleted:
		sharedUtils.DecodePayload(c.log, base.Type, base.Data, func(evt sharedEvents.ReviewChanged) {
			c.withTimeout(ctx, base.Type, evt.BootcampID, c.service.RecomputeAverageRating)
		})

	default:
		c.log.Debug("Ignoring event", zap.String("type", base.Type), zap.String("key", key))
	}
}

func (c *StatsConsumer) withTimeout(ctx context.Context, eventType string, bootcampID uuid.UUID, action func(context.Context, uuid.UUID) error) {
	ctxEvt, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := action(ctxEvt, bootcampID); err != nil {
		c.log.Warn("Failed to refresh bootcamp stats",
			zap.String("type", eventType),
			zap.String("bootcamp_id", bootcampID.String()),
			zap.Error(err),
		)
		return
	}
	c.log.Info("Bootcamp stats refreshed",
		zap.String("type", eventType),
		zap.String("bootcamp_id", bootcampID.String()),
	)
}

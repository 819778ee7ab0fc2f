package events

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler lo implementan los consumidores de eventos (p.ej. el de estadísticas de bootcamp).
type MessageHandler interface {
	HandleMessage(ctx context.Context, key string, payload []byte)
}

// ConsumerAdapter entrega cada mensaje del topic al handler y confirma el offset después,
// de modo que un mensaje no procesado se vuelve a leer tras un reinicio.
type ConsumerAdapter struct {
	reader  *kafka.Reader
	handler MessageHandler
	log     *zap.Logger
}

func NewConsumerAdapter(reader *kafka.Reader, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{reader: reader, handler: handler, log: log}
}

// Start arranca el bucle en una goroutine; el reader se cierra al cancelar ctx.
func (c *ConsumerAdapter) Start(ctx context.Context) {
	cfg := c.reader.Config()
	c.log.Info("Kafka consumer started",
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.GroupID),
	)
	go c.loop(ctx, cfg.Topic)
}

func (c *ConsumerAdapter) loop(ctx context.Context, topic string) {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("Kafka consumer stopped", zap.String("topic", topic))
				return
			}
			c.log.Error("Kafka fetch failed", zap.String("topic", topic), zap.Error(err))
			continue
		}

		c.handler.HandleMessage(ctx, string(msg.Key), msg.Value)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.log.Warn("Kafka commit failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
)

// HeaderEventType permite filtrar mensajes sin decodificar el cuerpo.
const HeaderEventType = "event-type"

// KafkaPublisher serializa eventos en JSON sobre el topic del writer.
// La clave de partición sale de bus.KeyOf, así los eventos de un bootcamp mantienen el orden.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Kafka write failed", zap.String("topic", p.writer.Topic), zap.Error(err))
		return err
	}
	p.log.Debug("Event published",
		zap.String("topic", p.writer.Topic),
		zap.ByteString("key", msg.Key),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event interface{}) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	msg := kafka.Message{Key: sharedBus.KeyOf(event), Value: data}
	if ie, ok := event.(sharedEvents.IntegrationEvent); ok {
		msg.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte(ie.Type)}}
	}
	return msg, nil
}

var _ sharedBus.EventBus = (*KafkaPublisher)(nil)

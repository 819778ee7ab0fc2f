package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
)

// InMemoryEventBus implementa un bus de eventos para UN solo topic.
// Se usa cuando no hay brokers Kafka configurados y en los tests.
type InMemoryEventBus struct {
	subscribers []chan []byte
	mu          sync.RWMutex
	closed      bool
	topic       string
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make([]chan []byte, 0),
		topic:       topic,
	}
}

// Publish serializa el evento y lo entrega a cada suscriptor sin bloquear.
// Si el buffer de un suscriptor está lleno el mensaje se descarta para él.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, sub := range b.subscribers {
		select {
		case sub <- payload:
		default:
		}
	}
	return nil
}

// Subscribe registra un nuevo oyente con el buffer indicado.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan []byte, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Close cierra todos los canales de suscripción. Es idempotente.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}

func (b *InMemoryEventBus) Topic() string {
	return b.topic
}

// BackgroundConsumerChan entrega cada payload del canal al handler hasta que ctx
// se cancela o el canal se cierra.
func BackgroundConsumerChan(ctx context.Context, ch <-chan []byte, handler MessageHandler, log *zap.Logger) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("In-memory consumer stopped")
				return
			case payload, ok := <-ch:
				if !ok {
					return
				}
				// La key no es relevante en el bus en memoria.
				handler.HandleMessage(ctx, "", payload)
			}
		}
	}()
}

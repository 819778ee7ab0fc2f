package bus

import "context"

// EventBus publica eventos de integración. Cada adapter decide el topic y la codificación.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}

// Keyer lo implementan los eventos que fijan su partición (el bootcamp afectado).
type Keyer interface {
	PartitionKey() string
}

// KeyOf devuelve la clave de partición del evento, o nil si no la tiene.
func KeyOf(event interface{}) []byte {
	k, ok := event.(Keyer)
	if !ok || k.PartitionKey() == "" {
		return nil
	}
	return []byte(k.PartitionKey())
}

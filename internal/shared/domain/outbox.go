package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent es un evento de integración que no se pudo publicar y espera reintento.
type OutboxEvent struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"` // ej. "course.created"
	Key       string          `json:"key"`        // clave de partición (id del bootcamp)
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// OutboxRepository es lo que el relayer necesita del almacén de pendientes.
type OutboxRepository interface {
	SaveOutbox(ctx context.Context, evt OutboxEvent) error
	FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error
}

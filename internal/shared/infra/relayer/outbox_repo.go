package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const OutboxCollection = "outbox"

type outboxDoc struct {
	ID        string    `bson:"_id"`
	EventType string    `bson:"eventType"`
	Key       string    `bson:"key"`
	Payload   string    `bson:"payload"`
	CreatedAt time.Time `bson:"createdAt"`
}

// OutboxRepo guarda los eventos pendientes en la colección outbox.
// Un evento procesado se borra: la colección sólo contiene pendientes.
type OutboxRepo struct {
	store docstore.Store[outboxDoc]
}

var _ sharedDomain.OutboxRepository = (*OutboxRepo)(nil)

func NewOutboxRepoMongo(db *mongo.Database) *OutboxRepo {
	return &OutboxRepo{store: mongodb.NewCollection[outboxDoc](db, OutboxCollection)}
}

func NewOutboxRepoMemory(db *memory.Database) *OutboxRepo {
	return &OutboxRepo{store: memory.NewCollection[outboxDoc](db, OutboxCollection)}
}

func (r *OutboxRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndexes(ctx, docstore.Index{Keys: []docstore.IndexKey{{Field: "createdAt"}}})
}

func (r *OutboxRepo) SaveOutbox(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	return r.store.Insert(ctx, outboxDoc{
		ID:        evt.ID.String(),
		EventType: evt.EventType,
		Key:       evt.Key,
		Payload:   string(evt.Payload),
		CreatedAt: evt.CreatedAt,
	})
}

// FetchPendingOutbox devuelve los pendientes más antiguos primero.
func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	docs, err := r.store.Find(nil).
		Sort(sharedQuery.Sort{Field: "createdAt"}).
		Limit(int64(limit)).
		All(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]sharedDomain.OutboxEvent, 0, len(docs))
	for _, d := range docs {
		id, _ := uuid.Parse(d.ID)
		events = append(events, sharedDomain.OutboxEvent{
			ID:        id,
			EventType: d.EventType,
			Key:       d.Key,
			Payload:   json.RawMessage(d.Payload),
			CreatedAt: d.CreatedAt,
		})
	}
	return events, nil
}

func (r *OutboxRepo) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return fmt.Errorf("outbox event not found: %s", id)
	}
	return err
}

package document

import (
	"context"
	"errors"
	"time"

	reviewDomain "github.com/davicafu/devcamper/internal/review/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ReviewsCollection   = "reviews"
	BootcampsCollection = "bootcamps"
)

var bootcampRelation = docstore.Relation{
	Name:         reviewDomain.PopulateBootcamp,
	From:         BootcampsCollection,
	LocalField:   "bootcamp",
	ForeignField: docstore.IDField,
	Single:       true,
	Fields:       []string{"name", "description"},
}

type reviewDoc struct {
	ID        string       `bson:"_id"`
	Title     string       `bson:"title"`
	Text      string       `bson:"text"`
	Rating    int          `bson:"rating"`
	Bootcamp  docstore.Ref `bson:"bootcamp"`
	User      string       `bson:"user"`
	CreatedAt time.Time    `bson:"createdAt"`
}

type bootcampSummaryDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

// ReviewRepo implementa ReviewRepository y los puertos Dependents y ReviewStats.
type ReviewRepo struct {
	store    docstore.Store[reviewDoc]
	execOpts []sharedQuery.ExecOption
}

var _ reviewDomain.ReviewRepository = (*ReviewRepo)(nil)

func NewReviewRepoMongo(db *mongo.Database, opts ...sharedQuery.ExecOption) *ReviewRepo {
	return &ReviewRepo{store: mongodb.NewCollection[reviewDoc](db, ReviewsCollection, bootcampRelation), execOpts: opts}
}

func NewReviewRepoMemory(db *memory.Database, opts ...sharedQuery.ExecOption) *ReviewRepo {
	return &ReviewRepo{store: memory.NewCollection[reviewDoc](db, ReviewsCollection, bootcampRelation), execOpts: opts}
}

// EnsureIndexes crea el índice único (bootcamp, user): una reseña por usuario y bootcamp.
func (r *ReviewRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndexes(ctx, docstore.Index{
		Keys:   []docstore.IndexKey{{Field: "bootcamp"}, {Field: "user"}},
		Unique: true,
	})
}

func (r *ReviewRepo) Create(ctx context.Context, rv *reviewDomain.Review) error {
	err := r.store.Insert(ctx, toReviewDoc(rv))
	if errors.Is(err, docstore.ErrDuplicate) {
		return reviewDomain.ErrAlreadyReviewed
	}
	return err
}

func (r *ReviewRepo) Update(ctx context.Context, rv *reviewDomain.Review) error {
	err := r.store.Replace(ctx, rv.ID.String(), toReviewDoc(rv))
	switch {
	case errors.Is(err, docstore.ErrNoDocument):
		return reviewDomain.ReviewNotFound(rv.ID)
	case errors.Is(err, docstore.ErrDuplicate):
		return reviewDomain.ErrAlreadyReviewed
	}
	return err
}

func (r *ReviewRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return reviewDomain.ReviewNotFound(id)
	}
	return err
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	d, err := r.store.Get(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, reviewDomain.ReviewNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return fromReviewDoc(d), nil
}

func (r *ReviewRepo) List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*reviewDomain.Review], error) {
	env, err := sharedQuery.Execute[reviewDoc](ctx, d, r.store, r.execOpts...)
	if err != nil {
		return nil, err
	}
	return sharedQuery.MapEnvelope(env, fromReviewDoc), nil
}

func (r *ReviewRepo) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*reviewDomain.Review, error) {
	docs, err := r.store.Find(byBootcamp(bootcampID)).
		Sort(sharedQuery.DefaultSort()...).
		All(ctx)
	if err != nil {
		return nil, &sharedDomain.QueryExecutionError{Op: "find", Err: err}
	}
	out := make([]*reviewDomain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromReviewDoc(d))
	}
	return out, nil
}

func (r *ReviewRepo) DeleteByBootcamp(ctx context.Context, bootcampID uuid.UUID) (int64, error) {
	return r.store.DeleteMany(ctx, byBootcamp(bootcampID))
}

func (r *ReviewRepo) AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error) {
	return r.store.Average(ctx, byBootcamp(bootcampID), "rating")
}

func byBootcamp(id uuid.UUID) sharedDomain.Filter {
	return sharedDomain.Filter{sharedDomain.Eq("bootcamp", id.String())}
}

// --- Helpers de Mapeo ---

func toReviewDoc(r *reviewDomain.Review) reviewDoc {
	return reviewDoc{
		ID: r.ID.String(), Title: r.Title, Text: r.Text, Rating: r.Rating,
		Bootcamp: docstore.NewRef(r.BootcampID.String()),
		User:     r.User.String(), CreatedAt: r.CreatedAt,
	}
}

func fromReviewDoc(d reviewDoc) *reviewDomain.Review {
	r := &reviewDomain.Review{
		ID: parseID(d.ID), Title: d.Title, Text: d.Text, Rating: d.Rating,
		BootcampID: parseID(d.Bootcamp.ID),
		User:       parseID(d.User), CreatedAt: d.CreatedAt,
	}
	var summary bootcampSummaryDoc
	if err := d.Bootcamp.Decode(&summary); err == nil {
		r.Bootcamp = &reviewDomain.BootcampSummary{ID: parseID(summary.ID), Name: summary.Name, Description: summary.Description}
	}
	return r
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

package document

import (
	"context"
	"errors"
	"time"

	courseDomain "github.com/davicafu/devcamper/internal/course/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CoursesCollection   = "courses"
	BootcampsCollection = "bootcamps"
)

var bootcampRelation = docstore.Relation{
	Name:         courseDomain.PopulateBootcamp,
	From:         BootcampsCollection,
	LocalField:   "bootcamp",
	ForeignField: docstore.IDField,
	Single:       true,
	Fields:       []string{"name", "description"},
}

type courseDoc struct {
	ID                   string       `bson:"_id"`
	Title                string       `bson:"title"`
	Description          string       `bson:"description"`
	Weeks                string       `bson:"weeks"`
	Tuition              float64      `bson:"tuition"`
	MinimumSkill         string       `bson:"minimumSkill"`
	ScholarshipAvailable bool         `bson:"scholarshipAvailable"`
	Bootcamp             docstore.Ref `bson:"bootcamp"`
	User                 string       `bson:"user"`
	CreatedAt            time.Time    `bson:"createdAt"`
}

type bootcampSummaryDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

// CourseRepo implementa CourseRepository y, de paso, los puertos Dependents y
// CourseStats que usa el contexto de bootcamps.
type CourseRepo struct {
	store    docstore.Store[courseDoc]
	execOpts []sharedQuery.ExecOption
}

var _ courseDomain.CourseRepository = (*CourseRepo)(nil)

func NewCourseRepoMongo(db *mongo.Database, opts ...sharedQuery.ExecOption) *CourseRepo {
	return &CourseRepo{store: mongodb.NewCollection[courseDoc](db, CoursesCollection, bootcampRelation), execOpts: opts}
}

func NewCourseRepoMemory(db *memory.Database, opts ...sharedQuery.ExecOption) *CourseRepo {
	return &CourseRepo{store: memory.NewCollection[courseDoc](db, CoursesCollection, bootcampRelation), execOpts: opts}
}

// EnsureIndexes indexa el campo bootcamp, usado por el populate, la cascada y las medias.
func (r *CourseRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndexes(ctx, docstore.Index{Keys: []docstore.IndexKey{{Field: "bootcamp"}}})
}

func (r *CourseRepo) Create(ctx context.Context, c *courseDomain.Course) error {
	return r.store.Insert(ctx, toCourseDoc(c))
}

func (r *CourseRepo) Update(ctx context.Context, c *courseDomain.Course) error {
	err := r.store.Replace(ctx, c.ID.String(), toCourseDoc(c))
	if errors.Is(err, docstore.ErrNoDocument) {
		return courseDomain.CourseNotFound(c.ID)
	}
	return err
}

func (r *CourseRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return courseDomain.CourseNotFound(id)
	}
	return err
}

func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*courseDomain.Course, error) {
	d, err := r.store.Get(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, courseDomain.CourseNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return fromCourseDoc(d), nil
}

func (r *CourseRepo) List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*courseDomain.Course], error) {
	env, err := sharedQuery.Execute[courseDoc](ctx, d, r.store, r.execOpts...)
	if err != nil {
		return nil, err
	}
	return sharedQuery.MapEnvelope(env, fromCourseDoc), nil
}

func (r *CourseRepo) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*courseDomain.Course, error) {
	docs, err := r.store.Find(byBootcamp(bootcampID)).
		Sort(sharedQuery.Sort{Field: "createdAt"}).
		All(ctx)
	if err != nil {
		return nil, &sharedDomain.QueryExecutionError{Op: "find", Err: err}
	}
	out := make([]*courseDomain.Course, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromCourseDoc(d))
	}
	return out, nil
}

func (r *CourseRepo) DeleteByBootcamp(ctx context.Context, bootcampID uuid.UUID) (int64, error) {
	return r.store.DeleteMany(ctx, byBootcamp(bootcampID))
}

func (r *CourseRepo) AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error) {
	return r.store.Average(ctx, byBootcamp(bootcampID), "tuition")
}

func byBootcamp(id uuid.UUID) sharedDomain.Filter {
	return sharedDomain.Filter{sharedDomain.Eq("bootcamp", id.String())}
}

// --- Helpers de Mapeo ---

func toCourseDoc(c *courseDomain.Course) courseDoc {
	return courseDoc{
		ID: c.ID.String(), Title: c.Title, Description: c.Description, Weeks: c.Weeks,
		Tuition: c.Tuition, MinimumSkill: string(c.MinimumSkill),
		ScholarshipAvailable: c.ScholarshipAvailable,
		Bootcamp:             docstore.NewRef(c.BootcampID.String()),
		User:                 c.User.String(), CreatedAt: c.CreatedAt,
	}
}

func fromCourseDoc(d courseDoc) *courseDomain.Course {
	c := &courseDomain.Course{
		ID: parseID(d.ID), Title: d.Title, Description: d.Description, Weeks: d.Weeks,
		Tuition: d.Tuition, MinimumSkill: courseDomain.Skill(d.MinimumSkill),
		ScholarshipAvailable: d.ScholarshipAvailable,
		BootcampID:           parseID(d.Bootcamp.ID),
		User:                 parseID(d.User), CreatedAt: d.CreatedAt,
	}
	var summary bootcampSummaryDoc
	if err := d.Bootcamp.Decode(&summary); err == nil {
		c.Bootcamp = &courseDomain.BootcampSummary{ID: parseID(summary.ID), Name: summary.Name, Description: summary.Description}
	}
	return c
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

package document

import (
	"context"
	"errors"
	"time"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BootcampsCollection = "bootcamps"
	// CoursesCollection es la colección de la que se pueblan los cursos de cada bootcamp.
	CoursesCollection = "courses"
)

// coursesRelation puebla "courses" con los cursos cuyo campo bootcamp apunta al _id.
var coursesRelation = docstore.Relation{
	Name:         bootcampDomain.PopulateCourses,
	From:         CoursesCollection,
	LocalField:   docstore.IDField,
	ForeignField: "bootcamp",
	Fields:       []string{"title", "description", "weeks", "tuition"},
}

type locationDoc struct {
	Type             string    `bson:"type"`
	Coordinates      []float64 `bson:"coordinates"`
	FormattedAddress string    `bson:"formattedAddress,omitempty"`
	Street           string    `bson:"street,omitempty"`
	City             string    `bson:"city,omitempty"`
	State            string    `bson:"state,omitempty"`
	Zipcode          string    `bson:"zipcode,omitempty"`
	Country          string    `bson:"country,omitempty"`
}

type courseSummaryDoc struct {
	ID          string  `bson:"_id"`
	Title       string  `bson:"title"`
	Description string  `bson:"description"`
	Weeks       string  `bson:"weeks"`
	Tuition     float64 `bson:"tuition"`
}

type bootcampDoc struct {
	ID            string             `bson:"_id"`
	Name          string             `bson:"name"`
	Slug          string             `bson:"slug"`
	Description   string             `bson:"description"`
	Website       string             `bson:"website,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Email         string             `bson:"email,omitempty"`
	Address       string             `bson:"address"`
	Location      *locationDoc       `bson:"location,omitempty"`
	Careers       []string           `bson:"careers"`
	AverageRating *float64           `bson:"averageRating,omitempty"`
	AverageCost   *float64           `bson:"averageCost,omitempty"`
	Photo         string             `bson:"photo"`
	Housing       bool               `bson:"housing"`
	JobAssistance bool               `bson:"jobAssistance"`
	JobGuarantee  bool               `bson:"jobGuarantee"`
	AcceptGi      bool               `bson:"acceptGi"`
	User          string             `bson:"user"`
	CreatedAt     time.Time          `bson:"createdAt"`
	Courses       []courseSummaryDoc `bson:"courses,omitempty"`
}

// BootcampRepo implementa BootcampRepository sobre un docstore.Store.
type BootcampRepo struct {
	store    docstore.Store[bootcampDoc]
	execOpts []sharedQuery.ExecOption
}

var _ bootcampDomain.BootcampRepository = (*BootcampRepo)(nil)

func NewBootcampRepoMongo(db *mongo.Database, opts ...sharedQuery.ExecOption) *BootcampRepo {
	return &BootcampRepo{
		store:    mongodb.NewCollection[bootcampDoc](db, BootcampsCollection, coursesRelation),
		execOpts: opts,
	}
}

func NewBootcampRepoMemory(db *memory.Database, opts ...sharedQuery.ExecOption) *BootcampRepo {
	return &BootcampRepo{
		store:    memory.NewCollection[bootcampDoc](db, BootcampsCollection, coursesRelation),
		execOpts: opts,
	}
}

// EnsureIndexes crea el índice 2dsphere de location y el único de name.
func (r *BootcampRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndexes(ctx,
		docstore.Index{Keys: []docstore.IndexKey{{Field: geo.LocationField, Kind: docstore.Sphere2D}}},
		docstore.Index{Keys: []docstore.IndexKey{{Field: "name"}}, Unique: true},
	)
}

func (r *BootcampRepo) Create(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	err := r.store.Insert(ctx, toBootcampDoc(b))
	if errors.Is(err, docstore.ErrDuplicate) {
		return bootcampDomain.ErrDuplicateBootcamp
	}
	return err
}

func (r *BootcampRepo) Update(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	err := r.store.Replace(ctx, b.ID.String(), toBootcampDoc(b))
	switch {
	case errors.Is(err, docstore.ErrNoDocument):
		return bootcampDomain.BootcampNotFound(b.ID)
	case errors.Is(err, docstore.ErrDuplicate):
		return bootcampDomain.ErrDuplicateBootcamp
	}
	return err
}

func (r *BootcampRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return bootcampDomain.BootcampNotFound(id)
	}
	return err
}

func (r *BootcampRepo) GetByID(ctx context.Context, id uuid.UUID) (*bootcampDomain.Bootcamp, error) {
	d, err := r.store.Get(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, bootcampDomain.BootcampNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return fromBootcampDoc(d), nil
}

func (r *BootcampRepo) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := r.store.Count(ctx, sharedDomain.Filter{sharedDomain.Eq("user", userID.String())})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BootcampRepo) List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*bootcampDomain.Bootcamp], error) {
	env, err := sharedQuery.Execute[bootcampDoc](ctx, d, r.store, r.execOpts...)
	if err != nil {
		return nil, err
	}
	return sharedQuery.MapEnvelope(env, fromBootcampDoc), nil
}

func (r *BootcampRepo) FindWithin(ctx context.Context, filter sharedDomain.Filter) ([]*bootcampDomain.Bootcamp, error) {
	docs, err := r.store.Find(filter).All(ctx)
	if err != nil {
		return nil, &sharedDomain.QueryExecutionError{Op: "find", Err: err}
	}
	out := make([]*bootcampDomain.Bootcamp, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromBootcampDoc(d))
	}
	return out, nil
}

// --- Helpers de Mapeo ---

func toBootcampDoc(b *bootcampDomain.Bootcamp) bootcampDoc {
	d := bootcampDoc{
		ID: b.ID.String(), Name: b.Name, Slug: b.Slug, Description: b.Description,
		Website: b.Website, Phone: b.Phone, Email: b.Email, Address: b.Address,
		Careers: b.Careers, AverageRating: b.AverageRating, AverageCost: b.AverageCost,
		Photo: b.Photo, Housing: b.Housing, JobAssistance: b.JobAssistance,
		JobGuarantee: b.JobGuarantee, AcceptGi: b.AcceptGi,
		User: b.User.String(), CreatedAt: b.CreatedAt,
	}
	if l := b.Location; l != nil {
		d.Location = &locationDoc{
			Type: l.Type, Coordinates: l.Coordinates, FormattedAddress: l.FormattedAddress,
			Street: l.Street, City: l.City, State: l.State, Zipcode: l.Zipcode, Country: l.Country,
		}
	}
	return d
}

func fromBootcampDoc(d bootcampDoc) *bootcampDomain.Bootcamp {
	b := &bootcampDomain.Bootcamp{
		ID: parseID(d.ID), Name: d.Name, Slug: d.Slug, Description: d.Description,
		Website: d.Website, Phone: d.Phone, Email: d.Email, Address: d.Address,
		Careers: d.Careers, AverageRating: d.AverageRating, AverageCost: d.AverageCost,
		Photo: d.Photo, Housing: d.Housing, JobAssistance: d.JobAssistance,
		JobGuarantee: d.JobGuarantee, AcceptGi: d.AcceptGi,
		User: parseID(d.User), CreatedAt: d.CreatedAt,
	}
	if l := d.Location; l != nil {
		b.Location = &bootcampDomain.Location{
			Type: l.Type, Coordinates: l.Coordinates, FormattedAddress: l.FormattedAddress,
			Street: l.Street, City: l.City, State: l.State, Zipcode: l.Zipcode, Country: l.Country,
		}
	}
	if d.Courses != nil {
		b.Courses = make([]bootcampDomain.CourseSummary, 0, len(d.Courses))
		for _, c := range d.Courses {
			b.Courses = append(b.Courses, bootcampDomain.CourseSummary{
				ID: parseID(c.ID), Title: c.Title, Description: c.Description, Weeks: c.Weeks, Tuition: c.Tuition,
			})
		}
	}
	return b
}

func parseID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}

package domain

import (
	"context"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/google/uuid"
)

var ErrCourseNotFound = sharedDomain.NotFoundError{Resource: "course"}

func CourseNotFound(id uuid.UUID) error {
	return sharedDomain.NotFoundError{Resource: "course", ID: id.String()}
}

// Relación poblable en los listados.
const PopulateBootcamp = "bootcamp"

type CourseRepository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	Update(ctx context.Context, c *Course) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*Course], error)
	// ListByBootcamp devuelve todos los cursos del bootcamp, sin paginar.
	ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*Course, error)

	DeleteByBootcamp(ctx context.Context, bootcampID uuid.UUID) (int64, error)
	AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error)
}

// BootcampOwners resuelve el dueño de un bootcamp; devuelve NotFound si no existe.
type BootcampOwners interface {
	OwnerOf(ctx context.Context, bootcampID uuid.UUID) (uuid.UUID, error)
}

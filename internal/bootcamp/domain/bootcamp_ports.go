package domain

import (
	"context"
	"fmt"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
var (
	ErrBootcampNotFound  = sharedDomain.NotFoundError{Resource: "bootcamp"}
	ErrAlreadyPublished  = sharedDomain.ConflictError{Resource: "bootcamp", Msg: "publisher has already published a bootcamp"}
	ErrDuplicateBootcamp = sharedDomain.ConflictError{Resource: "bootcamp", Msg: "name already in use"}
)

func BootcampNotFound(id uuid.UUID) error {
	return sharedDomain.NotFoundError{Resource: "bootcamp", ID: id.String()}
}

// Relación poblable en los listados.
const PopulateCourses = "courses"

// ---------- Interfaces (Ports) ----------

type BootcampRepository interface {
	Create(ctx context.Context, b *Bootcamp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bootcamp, error)
	Update(ctx context.Context, b *Bootcamp) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// ExistsForUser indica si el usuario ya es dueño de algún bootcamp.
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)

	List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*Bootcamp], error)
	// FindWithin devuelve, sin paginar, los bootcamps que cumplen el filtro (consulta por radio).
	FindWithin(ctx context.Context, filter sharedDomain.Filter) ([]*Bootcamp, error)
}

// Dependents lo implementan los repositorios que cuelgan de un bootcamp (cursos, reseñas).
type Dependents interface {
	DeleteByBootcamp(ctx context.Context, bootcampID uuid.UUID) (int64, error)
}

type CourseStats interface {
	AverageTuition(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error)
}

type ReviewStats interface {
	AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error)
}

func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("bootcamp:id:%s", id.String())
}

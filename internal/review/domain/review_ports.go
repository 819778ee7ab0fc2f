package domain

import (
	"context"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/google/uuid"
)

var (
	ErrReviewNotFound  = sharedDomain.NotFoundError{Resource: "review"}
	ErrAlreadyReviewed = sharedDomain.ConflictError{Resource: "review", Msg: "user has already reviewed this bootcamp"}
)

func ReviewNotFound(id uuid.UUID) error {
	return sharedDomain.NotFoundError{Resource: "review", ID: id.String()}
}

const PopulateBootcamp = "bootcamp"

type ReviewRepository interface {
	// Debe devolver ErrAlreadyReviewed si el usuario ya tiene reseña en ese bootcamp.
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	Update(ctx context.Context, r *Review) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*Review], error)
	ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*Review, error)

	DeleteByBootcamp(ctx context.Context, bootcampID uuid.UUID) (int64, error)
	AverageRating(ctx context.Context, bootcampID uuid.UUID) (float64, bool, error)
}

// BootcampLookup comprueba que el bootcamp existe.
type BootcampLookup interface {
	OwnerOf(ctx context.Context, bootcampID uuid.UUID) (uuid.UUID, error)
}

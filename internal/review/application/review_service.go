package application

import (
	"context"
	"fmt"

	reviewDomain "github.com/davicafu/devcamper/internal/review/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService agrupa los casos de uso de reseñas. Cada cambio se publica
// para que el contexto de bootcamps recalcule averageRating.
type ReviewService struct {
	repo      reviewDomain.ReviewRepository
	bootcamps reviewDomain.BootcampLookup
	bus       sharedBus.EventBus
	log       *zap.Logger
}

func NewReviewService(repo reviewDomain.ReviewRepository, bootcamps reviewDomain.BootcampLookup, bus sharedBus.EventBus, log *zap.Logger) *ReviewService {
	return &ReviewService{repo: repo, bootcamps: bootcamps, bus: bus, log: log}
}

type ReviewPatch struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

func (s *ReviewService) ListReviews(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*reviewDomain.Review], error) {
	return s.repo.List(ctx, d)
}

func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*reviewDomain.Review, error) {
	return s.repo.ListByBootcamp(ctx, bootcampID)
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// AddReview crea la reseña del actor sobre un bootcamp existente.
func (s *ReviewService) AddReview(ctx context.Context, actor sharedDomain.Actor, bootcampID uuid.UUID, input reviewDomain.Review) (*reviewDomain.Review, error) {
	if _, err := s.bootcamps.OwnerOf(ctx, bootcampID); err != nil {
		return nil, err
	}

	r, err := reviewDomain.NewReview(input, bootcampID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if !sharedDomain.IsConflict(err) {
			s.log.Error("Failed to create review", zap.Error(err))
		}
		return nil, err
	}
	s.publish(ctx, sharedEvents.ReviewCreated, r)
	return r, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID, p ReviewPatch) (*reviewDomain.Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(r.User) {
		return nil, sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to update review %s", actor.ID, id)}
	}

	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	s.publish(ctx, sharedEvents.ReviewUpdated, r)
	return r, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(r.User) {
		return sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to delete review %s", actor.ID, id)}
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sharedEvents.ReviewDeleted, r)
	return nil
}

func (s *ReviewService) publish(ctx context.Context, eventType string, r *reviewDomain.Review) {
	if s.bus == nil {
		return
	}
	evt, err := sharedEvents.NewIntegrationEvent(eventType, r.BootcampID.String(), sharedEvents.ReviewChanged{
		ID: r.ID, BootcampID: r.BootcampID, Rating: r.Rating,
	})
	if err == nil {
		err = s.bus.Publish(ctx, evt)
	}
	if err != nil {
		s.log.Warn("Failed to publish review event",
			zap.String("type", eventType),
			zap.String("review_id", r.ID.String()),
			zap.Error(err))
	}
}

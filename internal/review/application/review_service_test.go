package application

import (
	"context"
	"testing"

	reviewDomain "github.com/davicafu/devcamper/internal/review/domain"
	"github.com/davicafu/devcamper/internal/review/infra/outbound/db/document"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	"github.com/davicafu/devcamper/internal/shared/infra/mocks"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bootcampSet map[uuid.UUID]bool

func (b bootcampSet) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if !b[id] {
		return uuid.Nil, sharedDomain.NotFoundError{Resource: "bootcamp", ID: id.String()}
	}
	return uuid.New(), nil
}

var (
	author     = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleUser}
	other      = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleUser}
	admin      = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleAdmin}
	bootcampID = uuid.New()
)

func newService(t *testing.T) (*ReviewService, *mocks.MockPublisher) {
	t.Helper()
	bus := &mocks.MockPublisher{}
	repo := document.NewReviewRepoMemory(memory.NewDatabase())
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	return NewReviewService(repo, bootcampSet{bootcampID: true}, bus, zap.NewNop()), bus
}

func reviewInput(rating int) reviewDomain.Review {
	return reviewDomain.Review{Title: "Learned a ton", Text: "Great mentors", Rating: rating}
}

func TestAddReview(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	bus.On("Publish", mock.Anything, mock.MatchedBy(func(evt sharedEvents.IntegrationEvent) bool {
		return evt.Type == sharedEvents.ReviewCreated && evt.Key == bootcampID.String()
	})).Return(nil).Once()

	r, err := svc.AddReview(ctx, author, bootcampID, reviewInput(8))
	require.NoError(t, err)
	assert.Equal(t, author.ID, r.User)
	bus.AssertExpectations(t)

	_, err = svc.AddReview(ctx, author, bootcampID, reviewInput(5))
	assert.True(t, sharedDomain.IsConflict(err))

	_, err = svc.AddReview(ctx, other, uuid.New(), reviewInput(5))
	assert.True(t, sharedDomain.IsNotFound(err))

	_, err = svc.AddReview(ctx, other, bootcampID, reviewInput(11))
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestUpdateAndDeleteReview(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	r, err := svc.AddReview(ctx, author, bootcampID, reviewInput(8))
	require.NoError(t, err)

	rating := 3
	_, err = svc.UpdateReview(ctx, other, r.ID, ReviewPatch{Rating: &rating})
	assert.True(t, sharedDomain.IsForbidden(err))

	updated, err := svc.UpdateReview(ctx, author, r.ID, ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)

	zero := 0
	_, err = svc.UpdateReview(ctx, admin, r.ID, ReviewPatch{Rating: &zero})
	assert.True(t, sharedDomain.IsValidation(err))

	assert.True(t, sharedDomain.IsForbidden(svc.DeleteReview(ctx, other, r.ID)))
	require.NoError(t, svc.DeleteReview(ctx, admin, r.ID))
	assert.ErrorIs(t, svc.DeleteReview(ctx, admin, r.ID), reviewDomain.ErrReviewNotFound)

	list, err := svc.ListByBootcamp(ctx, bootcampID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

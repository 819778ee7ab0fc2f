package application

import (
	"context"
	"errors"
	"testing"

	courseDomain "github.com/davicafu/devcamper/internal/course/domain"
	"github.com/davicafu/devcamper/internal/course/infra/outbound/db/document"
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

// owners resuelve dueños desde un mapa fijo.
type owners map[uuid.UUID]uuid.UUID

func (o owners) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	owner, ok := o[id]
	if !ok {
		return uuid.Nil, sharedDomain.NotFoundError{Resource: "bootcamp", ID: id.String()}
	}
	return owner, nil
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(evt sharedEvents.IntegrationEvent) bool { return evt.Type == eventType })
}

var (
	publisher  = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}
	stranger   = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}
	admin      = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleAdmin}
	bootcampID = uuid.New()
)

func newService(t *testing.T) (*CourseService, *mocks.MockPublisher) {
	t.Helper()
	bus := &mocks.MockPublisher{}
	repo := document.NewCourseRepoMemory(memory.NewDatabase())
	return NewCourseService(repo, owners{bootcampID: publisher.ID}, bus, zap.NewNop()), bus
}

func courseInput() courseDomain.Course {
	return courseDomain.Course{
		Title: "Front End Web Development", Description: "HTML, CSS", Weeks: "8",
		Tuition: 8000, MinimumSkill: courseDomain.SkillBeginner,
	}
}

func TestAddCourse(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	bus.On("Publish", mock.Anything, eventOfType(sharedEvents.CourseCreated)).Return(nil).Once()

	c, err := svc.AddCourse(ctx, publisher, bootcampID, courseInput())
	require.NoError(t, err)
	assert.Equal(t, bootcampID, c.BootcampID)
	assert.Equal(t, publisher.ID, c.User)
	bus.AssertExpectations(t)

	_, err = svc.AddCourse(ctx, stranger, bootcampID, courseInput())
	assert.True(t, sharedDomain.IsForbidden(err))

	_, err = svc.AddCourse(ctx, publisher, uuid.New(), courseInput())
	assert.True(t, sharedDomain.IsNotFound(err))

	invalid := courseInput()
	invalid.MinimumSkill = "guru"
	_, err = svc.AddCourse(ctx, admin, bootcampID, invalid)
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestAddCourse_PublishFailureIsNotFatal(t *testing.T) {
	svc, bus := newService(t)
	bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	c, err := svc.AddCourse(context.Background(), publisher, bootcampID, courseInput())
	require.NoError(t, err)

	got, err := svc.GetCourse(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Title, got.Title)
}

func TestUpdateAndDeleteCourse(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.AddCourse(ctx, publisher, bootcampID, courseInput())
	require.NoError(t, err)

	tuition := 9500.0
	_, err = svc.UpdateCourse(ctx, stranger, c.ID, CoursePatch{Tuition: &tuition})
	assert.True(t, sharedDomain.IsForbidden(err))

	updated, err := svc.UpdateCourse(ctx, publisher, c.ID, CoursePatch{Tuition: &tuition})
	require.NoError(t, err)
	assert.Equal(t, 9500.0, updated.Tuition)

	negative := -5.0
	_, err = svc.UpdateCourse(ctx, admin, c.ID, CoursePatch{Tuition: &negative})
	assert.True(t, sharedDomain.IsValidation(err))

	assert.True(t, sharedDomain.IsForbidden(svc.DeleteCourse(ctx, stranger, c.ID)))
	require.NoError(t, svc.DeleteCourse(ctx, admin, c.ID))
	assert.ErrorIs(t, svc.DeleteCourse(ctx, admin, c.ID), courseDomain.ErrCourseNotFound)

	bus.AssertCalled(t, "Publish", mock.Anything, eventOfType(sharedEvents.CourseUpdated))
	bus.AssertCalled(t, "Publish", mock.Anything, eventOfType(sharedEvents.CourseDeleted))
}

func TestListByBootcamp(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 3; i++ {
		_, err := svc.AddCourse(ctx, publisher, bootcampID, courseInput())
		require.NoError(t, err)
	}
	list, err := svc.ListByBootcamp(ctx, bootcampID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = svc.ListByBootcamp(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
}

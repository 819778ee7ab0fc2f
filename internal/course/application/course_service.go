package application

import (
	"context"
	"fmt"

	courseDomain "github.com/davicafu/devcamper/internal/course/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedEvents "github.com/davicafu/devcamper/internal/shared/events"
	sharedBus "github.com/davicafu/devcamper/internal/shared/infra/platform/bus"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseService agrupa los casos de uso de cursos. Cada cambio se publica para que
// el contexto de bootcamps recalcule averageCost.
type CourseService struct {
	repo      courseDomain.CourseRepository
	bootcamps courseDomain.BootcampOwners
	bus       sharedBus.EventBus
	log       *zap.Logger
}

func NewCourseService(repo courseDomain.CourseRepository, bootcamps courseDomain.BootcampOwners, bus sharedBus.EventBus, log *zap.Logger) *CourseService {
	return &CourseService{repo: repo, bootcamps: bootcamps, bus: bus, log: log}
}

type CoursePatch struct {
	Title                *string             `json:"title"`
	Description          *string             `json:"description"`
	Weeks                *string             `json:"weeks"`
	Tuition              *float64            `json:"tuition"`
	MinimumSkill         *courseDomain.Skill `json:"minimumSkill"`
	ScholarshipAvailable *bool               `json:"scholarshipAvailable"`
}

func (s *CourseService) ListCourses(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*courseDomain.Course], error) {
	return s.repo.List(ctx, d)
}

func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID uuid.UUID) ([]*courseDomain.Course, error) {
	return s.repo.ListByBootcamp(ctx, bootcampID)
}

func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*courseDomain.Course, error) {
	return s.repo.GetByID(ctx, id)
}

// AddCourse crea un curso en el bootcamp; sólo su dueño o un admin pueden hacerlo.
func (s *CourseService) AddCourse(ctx context.Context, actor sharedDomain.Actor, bootcampID uuid.UUID, input courseDomain.Course) (*courseDomain.Course, error) {
	owner, err := s.bootcamps.OwnerOf(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(owner) {
		return nil, sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to add a course to bootcamp %s", actor.ID, bootcampID)}
	}

	c, err := courseDomain.NewCourse(input, bootcampID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("Failed to create course", zap.Error(err))
		return nil, err
	}
	s.publish(ctx, sharedEvents.CourseCreated, c)
	return c, nil
}

func (s *CourseService) UpdateCourse(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID, p CoursePatch) (*courseDomain.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(c.User) {
		return nil, sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to update course %s", actor.ID, id)}
	}

	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Weeks != nil {
		c.Weeks = *p.Weeks
	}
	if p.Tuition != nil {
		c.Tuition = *p.Tuition
	}
	if p.MinimumSkill != nil {
		c.MinimumSkill = *p.MinimumSkill
	}
	if p.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *p.ScholarshipAvailable
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, sharedEvents.CourseUpdated, c)
	return c, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(c.User) {
		return sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to delete course %s", actor.ID, id)}
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sharedEvents.CourseDeleted, c)
	return nil
}

// publish es best effort: el cambio ya está persistido, un fallo sólo se registra.
func (s *CourseService) publish(ctx context.Context, eventType string, c *courseDomain.Course) {
	if s.bus == nil {
		return
	}
	evt, err := sharedEvents.NewIntegrationEvent(eventType, c.BootcampID.String(), sharedEvents.CourseChanged{
		ID: c.ID, BootcampID: c.BootcampID, Tuition: c.Tuition,
	})
	if err == nil {
		err = s.bus.Publish(ctx, evt)
	}
	if err != nil {
		s.log.Warn("Failed to publish course event",
			zap.String("type", eventType),
			zap.String("course_id", c.ID.String()),
			zap.Error(err))
	}
}

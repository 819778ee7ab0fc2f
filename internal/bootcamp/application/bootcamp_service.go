package application

import (
	"context"
	"fmt"
	"time"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const bootcampCacheTTL = 60

// BootcampService agrupa los casos de uso de bootcamps.
type BootcampService struct {
	repo       bootcampDomain.BootcampRepository
	cache      sharedCache.Cache
	geocoder   geo.Geocoder
	courses    bootcampDomain.CourseStats
	reviews    bootcampDomain.ReviewStats
	dependents []bootcampDomain.Dependents
	log        *zap.Logger
}

type Option func(*BootcampService)

// WithGeocoder activa la geocodificación de direcciones y la búsqueda por radio.
func WithGeocoder(g geo.Geocoder) Option {
	return func(s *BootcampService) { s.geocoder = g }
}

// WithStats conecta las fuentes de las medias de coste y valoración.
func WithStats(courses bootcampDomain.CourseStats, reviews bootcampDomain.ReviewStats) Option {
	return func(s *BootcampService) {
		s.courses = courses
		s.reviews = reviews
	}
}

// WithDependents registra los repositorios que se borran en cascada con el bootcamp.
func WithDependents(deps ...bootcampDomain.Dependents) Option {
	return func(s *BootcampService) { s.dependents = append(s.dependents, deps...) }
}

func NewBootcampService(repo bootcampDomain.BootcampRepository, cache sharedCache.Cache, log *zap.Logger, opts ...Option) *BootcampService {
	s := &BootcampService{repo: repo, cache: cache, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BootcampPatch son los campos modificables; nil = sin cambios.
type BootcampPatch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Photo         *string   `json:"photo"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

// CreateBootcamp publica un bootcamp. Un publisher sólo puede tener uno; admin no tiene límite.
func (s *BootcampService) CreateBootcamp(ctx context.Context, actor sharedDomain.Actor, input bootcampDomain.Bootcamp) (*bootcampDomain.Bootcamp, error) {
	if !actor.IsAdmin() {
		exists, err := s.repo.ExistsForUser(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, bootcampDomain.ErrAlreadyPublished
		}
	}

	b, err := bootcampDomain.NewBootcamp(input, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.locate(ctx, b); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if !sharedDomain.IsConflict(err) {
			s.log.Error("Failed to create bootcamp", zap.Error(err))
		}
		return nil, err
	}
	s.log.Info("Bootcamp created", zap.String("bootcamp_id", b.ID.String()), zap.String("user_id", actor.ID.String()))
	return b, nil
}

// GetBootcamp obtiene un bootcamp usando cache-aside con reintentos.
func (s *BootcampService) GetBootcamp(ctx context.Context, id uuid.UUID) (*bootcampDomain.Bootcamp, error) {
	if s.cache != nil {
		var b bootcampDomain.Bootcamp
		if hit, _ := s.cache.Get(ctx, bootcampDomain.CacheKeyByID(id), &b); hit {
			return &b, nil
		}
	}

	var b *bootcampDomain.Bootcamp
	err := sharedUtils.RetryIf(ctx, 3, 100*time.Millisecond, isTransient, func() error {
		var err error
		b, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if sharedDomain.IsNotFound(err) {
			s.log.Warn("Bootcamp not found", zap.String("bootcamp_id", id.String()))
		} else {
			s.log.Error("Failed to load bootcamp", zap.String("bootcamp_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, bootcampDomain.CacheKeyByID(id), b, bootcampCacheTTL, s.log)
	return b, nil
}

// OwnerOf devuelve el dueño del bootcamp; lo usan cursos y reseñas para sus permisos.
func (s *BootcampService) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	b, err := s.GetBootcamp(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return b.User, nil
}

// UpdateBootcamp aplica el patch si el actor es el dueño o admin.
func (s *BootcampService) UpdateBootcamp(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID, patch BootcampPatch) (*bootcampDomain.Bootcamp, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(b.User) {
		return nil, sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to update this bootcamp", actor.ID)}
	}

	applyPatch(b, patch)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if patch.Address != nil {
		if err := s.locate(ctx, b); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, bootcampDomain.CacheKeyByID(id), s.log)
	return b, nil
}

// DeleteBootcamp borra el bootcamp y, antes, sus cursos y reseñas.
func (s *BootcampService) DeleteBootcamp(ctx context.Context, actor sharedDomain.Actor, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(b.User) {
		return sharedDomain.ForbiddenError{Msg: fmt.Sprintf("user %s is not authorized to delete this bootcamp", actor.ID)}
	}

	for _, dep := range s.dependents {
		n, err := dep.DeleteByBootcamp(ctx, id)
		if err != nil {
			s.log.Error("Cascade delete failed", zap.String("bootcamp_id", id.String()), zap.Error(err))
			return err
		}
		s.log.Debug("Cascade delete", zap.String("bootcamp_id", id.String()), zap.Int64("deleted", n))
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, bootcampDomain.CacheKeyByID(id), s.log)
	return nil
}

// ListBootcamps resuelve el descriptor del listado.
func (s *BootcampService) ListBootcamps(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*bootcampDomain.Bootcamp], error) {
	return s.repo.List(ctx, d)
}

// BootcampsInRadius devuelve los bootcamps a menos de distanceMiles del lugar indicado.
func (s *BootcampService) BootcampsInRadius(ctx context.Context, place string, distanceMiles float64) ([]*bootcampDomain.Bootcamp, error) {
	filter, err := geo.BuildRadiusFilter(ctx, place, distanceMiles, s.geocoder)
	if err != nil {
		if !sharedDomain.IsValidation(err) && !sharedDomain.IsLocationNotFound(err) {
			s.log.Error("Radius query failed", zap.String("place", place), zap.Error(err))
		}
		return nil, err
	}
	return s.repo.FindWithin(ctx, filter)
}

// RecomputeAverageCost recalcula averageCost como la media de matrículas redondeada a la decena superior.
func (s *BootcampService) RecomputeAverageCost(ctx context.Context, id uuid.UUID) error {
	if s.courses == nil {
		return nil
	}
	avg, ok, err := s.courses.AverageTuition(ctx, id)
	if err != nil {
		return err
	}
	return s.updateStats(ctx, id, func(b *bootcampDomain.Bootcamp) {
		b.AverageCost = nil
		if ok {
			cost := bootcampDomain.RoundCost(avg)
			b.AverageCost = &cost
		}
	})
}

// RecomputeAverageRating recalcula averageRating con las reseñas actuales.
func (s *BootcampService) RecomputeAverageRating(ctx context.Context, id uuid.UUID) error {
	if s.reviews == nil {
		return nil
	}
	avg, ok, err := s.reviews.AverageRating(ctx, id)
	if err != nil {
		return err
	}
	return s.updateStats(ctx, id, func(b *bootcampDomain.Bootcamp) {
		b.AverageRating = nil
		if ok {
			rating := bootcampDomain.RoundRating(avg)
			b.AverageRating = &rating
		}
	})
}

func (s *BootcampService) updateStats(ctx context.Context, id uuid.UUID, apply func(b *bootcampDomain.Bootcamp)) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	apply(b)
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, bootcampDomain.CacheKeyByID(id), s.log)
	return nil
}

// locate geocodifica la dirección. Sin geocoder se respeta la location enviada.
func (s *BootcampService) locate(ctx context.Context, b *bootcampDomain.Bootcamp) error {
	if s.geocoder == nil {
		return nil
	}
	locations, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		s.log.Error("Geocoding failed", zap.String("address", b.Address), zap.Error(err))
		return fmt.Errorf("geocode address: %w", err)
	}
	if len(locations) == 0 {
		return sharedDomain.LocationNotFoundError{Place: b.Address}
	}
	b.Location = bootcampDomain.NewLocation(locations[0])
	return nil
}

func applyPatch(b *bootcampDomain.Bootcamp, p BootcampPatch) {
	if p.Name != nil {
		b.Rename(*p.Name)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.Description, p.Description)
	set(&b.Website, p.Website)
	set(&b.Phone, p.Phone)
	set(&b.Email, p.Email)
	set(&b.Address, p.Address)
	set(&b.Photo, p.Photo)
	if p.Careers != nil {
		b.Careers = *p.Careers
	}
	for _, f := range []struct {
		dst *bool
		v   *bool
	}{{&b.Housing, p.Housing}, {&b.JobAssistance, p.JobAssistance}, {&b.JobGuarantee, p.JobGuarantee}, {&b.AcceptGi, p.AcceptGi}} {
		if f.v != nil {
			*f.dst = *f.v
		}
	}
	b.Courses = nil
}

func isTransient(err error) bool {
	return !sharedDomain.IsNotFound(err) && !sharedDomain.IsValidation(err) && !sharedDomain.IsConflict(err)
}

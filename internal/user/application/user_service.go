package application

import (
	"context"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedCache "github.com/davicafu/devcamper/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/devcamper/internal/shared/infra/utils"
	"github.com/davicafu/devcamper/internal/user/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userCacheTTL = 60

// UserService agrupa los casos de uso de administración de usuarios.
type UserService struct {
	repo  domain.UserRepository
	cache sharedCache.Cache
	log   *zap.Logger
}

func NewUserService(repo domain.UserRepository, cache sharedCache.Cache, log *zap.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, log: log}
}

// UserPatch lleva los campos opcionales de una actualización.
type UserPatch struct {
	Name     *string
	Email    *string
	Role     *sharedDomain.Role
	Password *string
}

// CreateUser crea un usuario con cualquier rol (uso administrativo).
func (s *UserService) CreateUser(ctx context.Context, name, email, password string, role sharedDomain.Role) (*domain.User, error) {
	user, err := domain.NewUser(name, email, password, role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !sharedDomain.IsConflict(err) {
			s.log.Error("Failed to create user", zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

// GetUser obtiene un usuario usando cache-aside con reintentos.
// El usuario cacheado no lleva hash de contraseña.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.cache != nil {
		var u domain.User
		if hit, _ := s.cache.Get(ctx, domain.CacheKeyByID(id), &u); hit {
			return &u, nil
		}
	}

	var user *domain.User
	err := sharedUtils.RetryIf(ctx, 3, 100*time.Millisecond, isTransient, func() error {
		var err error
		user, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if sharedDomain.IsNotFound(err) {
			s.log.Warn("User not found", zap.String("user_id", id.String()))
		} else {
			s.log.Error("Failed to load user", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(user.ID), user, userCacheTTL, s.log)
	return user, nil
}

// UpdateUser aplica el patch sobre la versión del repositorio (nunca la cacheada).
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = domain.NormalizeEmail(*patch.Email)
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if patch.Password != nil {
		if err := user.SetPassword(*patch.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(id), s.log)
	return nil
}

// ListUsers resuelve el descriptor del listado.
func (s *UserService) ListUsers(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*domain.User], error) {
	return s.repo.List(ctx, d)
}

// isTransient descarta reintentar errores de dominio (no encontrado, validación, ...).
func isTransient(err error) bool {
	return !sharedDomain.IsNotFound(err) && !sharedDomain.IsValidation(err) && !sharedDomain.IsConflict(err)
}

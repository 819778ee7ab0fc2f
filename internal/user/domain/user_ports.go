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
	ErrUserNotFound       = sharedDomain.NotFoundError{Resource: "user"}
	ErrEmailTaken         = sharedDomain.ConflictError{Resource: "user", Msg: "email already registered"}
	ErrInvalidCredentials = sharedDomain.UnauthorizedError{Msg: "invalid credentials"}
)

func UserNotFound(id uuid.UUID) error {
	return sharedDomain.NotFoundError{Resource: "user", ID: id.String()}
}

// ---------- Interfaces (Ports) ----------

// UserRepository define las operaciones persistentes para User.
type UserRepository interface {
	// Debe devolver ErrEmailTaken si el email ya existe.
	Create(ctx context.Context, u *User) error

	// Debe devolver un NotFoundError si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, u *User) error
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// List resuelve un descriptor del Translator sobre la colección de usuarios.
	List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*User], error)
}

// ---------- Helpers comunes (cache keys, etc.) ----------

// CacheKeyByID forma una key consistente para cache usando ID.
func CacheKeyByID(id uuid.UUID) string {
	return fmt.Sprintf("user:id:%s", id.String())
}

package document

import (
	"context"
	"errors"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/mongodb"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/docstore"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/devcamper/internal/user/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollection = "users"

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type userDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"createdAt"`
}

// UserRepo implementa UserRepository sobre cualquier docstore.Store.
type UserRepo struct {
	store    docstore.Store[userDoc]
	execOpts []sharedQuery.ExecOption
}

var _ userDomain.UserRepository = (*UserRepo)(nil)

func NewUserRepoMongo(db *mongo.Database, opts ...sharedQuery.ExecOption) *UserRepo {
	return &UserRepo{store: mongodb.NewCollection[userDoc](db, UsersCollection), execOpts: opts}
}

func NewUserRepoMemory(db *memory.Database, opts ...sharedQuery.ExecOption) *UserRepo {
	return &UserRepo{store: memory.NewCollection[userDoc](db, UsersCollection), execOpts: opts}
}

// EnsureIndexes crea el índice único de email.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndexes(ctx, docstore.Index{
		Keys:   []docstore.IndexKey{{Field: "email"}},
		Unique: true,
	})
}

// --- CRUD ---

func (r *UserRepo) Create(ctx context.Context, u *userDomain.User) error {
	err := r.store.Insert(ctx, toUserDoc(u))
	if errors.Is(err, docstore.ErrDuplicate) {
		return userDomain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) Update(ctx context.Context, u *userDomain.User) error {
	err := r.store.Replace(ctx, u.ID.String(), toUserDoc(u))
	switch {
	case errors.Is(err, docstore.ErrNoDocument):
		return userDomain.UserNotFound(u.ID)
	case errors.Is(err, docstore.ErrDuplicate):
		return userDomain.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.store.Delete(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return userDomain.UserNotFound(id)
	}
	return err
}

// --- Lectura ---

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	d, err := r.store.Get(ctx, id.String())
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, userDomain.UserNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return fromUserDoc(d), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	d, err := r.store.FindOne(ctx, sharedDomain.Filter{sharedDomain.Eq("email", userDomain.NormalizeEmail(email))})
	if errors.Is(err, docstore.ErrNoDocument) {
		return nil, userDomain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromUserDoc(d), nil
}

func (r *UserRepo) List(ctx context.Context, d sharedQuery.Descriptor) (*sharedQuery.Envelope[*userDomain.User], error) {
	env, err := sharedQuery.Execute[userDoc](ctx, d, r.store, r.execOpts...)
	if err != nil {
		return nil, err
	}
	return sharedQuery.MapEnvelope(env, fromUserDoc), nil
}

// --- Helpers de Mapeo ---

func toUserDoc(u *userDomain.User) userDoc {
	return userDoc{
		ID: u.ID.String(), Name: u.Name, Email: u.Email,
		Role: string(u.Role), Password: u.PasswordHash, CreatedAt: u.CreatedAt,
	}
}

func fromUserDoc(d userDoc) *userDomain.User {
	id, _ := uuid.Parse(d.ID)
	return &userDomain.User{
		ID: id, Name: d.Name, Email: d.Email,
		Role: sharedDomain.Role(d.Role), PasswordHash: d.Password, CreatedAt: d.CreatedAt,
	}
}

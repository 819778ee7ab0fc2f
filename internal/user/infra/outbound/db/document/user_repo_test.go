package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	userDomain "github.com/davicafu/devcamper/internal/user/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *UserRepo {
	t.Helper()
	repo := NewUserRepoMemory(memory.NewDatabase())
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	return repo
}

func newUser(t *testing.T, email string, role sharedDomain.Role) *userDomain.User {
	t.Helper()
	u, err := userDomain.NewUser("User "+email, email, "123456", role)
	require.NoError(t, err)
	return u
}

func TestUserRepo_CRUD(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	u := newUser(t, "john@gmail.com", sharedDomain.RolePublisher)

	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, newUser(t, "JOHN@gmail.com", sharedDomain.RoleUser)), userDomain.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "John@Gmail.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.MatchPassword("123456"), "el hash se persiste")
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Millisecond)

	got.Name = "Johnny"
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.Name)

	require.NoError(t, repo.DeleteByID(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, uuid.New()), userDomain.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(ctx, u), userDomain.ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
}

func TestUserRepo_List(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		role := sharedDomain.RoleUser
		if i%2 == 0 {
			role = sharedDomain.RolePublisher
		}
		require.NoError(t, repo.Create(ctx, newUser(t, fmt.Sprintf("u%d@example.com", i), role)))
	}

	d := sharedQuery.Translate(map[string]string{"role": "publisher", "select": "email", "sort": "email", "limit": "1"})
	env, err := repo.List(ctx, d)
	require.NoError(t, err)

	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "u0@example.com", env.Data[0].Email)
	assert.Empty(t, env.Data[0].Name, "select limita los campos")
	require.NotNil(t, env.Pagination.Next, "el total sin filtrar es 4")
	assert.Equal(t, 2, env.Pagination.Next.Page)
	assert.Nil(t, env.Pagination.Prev)
}

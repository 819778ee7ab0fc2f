package document

import (
	"context"
	"testing"

	courseDomain "github.com/davicafu/devcamper/internal/course/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newCourse(t *testing.T, title string, tuition float64, bootcampID uuid.UUID) *courseDomain.Course {
	t.Helper()
	c, err := courseDomain.NewCourse(courseDomain.Course{
		Title: title, Description: "desc", Weeks: "8", Tuition: tuition, MinimumSkill: courseDomain.SkillBeginner,
	}, bootcampID, uuid.New())
	require.NoError(t, err)
	return c
}

func seedBootcamp(t *testing.T, db *memory.Database, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, memory.NewCollection[bson.M](db, BootcampsCollection).Insert(context.Background(), bson.M{
		"_id": id.String(), "name": name, "description": name + " description", "address": "secret",
	}))
	return id
}

func TestCourseRepo_CRUDAndStats(t *testing.T) {
	db := memory.NewDatabase()
	repo := NewCourseRepoMemory(db)
	ctx := context.Background()
	bootcampID := uuid.New()

	c1 := newCourse(t, "Front End", 8000, bootcampID)
	c2 := newCourse(t, "Full Stack", 12001, bootcampID)
	other := newCourse(t, "Other", 1, uuid.New())
	for _, c := range []*courseDomain.Course{c1, c2, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	got, err := repo.GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, bootcampID, got.BootcampID)
	assert.Nil(t, got.Bootcamp)

	avg, ok, err := repo.AverageTuition(ctx, bootcampID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 10000.5, avg, 1e-9)

	_, ok, err = repo.AverageTuition(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := repo.ListByBootcamp(ctx, bootcampID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got.Tuition = 9000
	require.NoError(t, repo.Update(ctx, got))
	got, _ = repo.GetByID(ctx, c1.ID)
	assert.Equal(t, 9000.0, got.Tuition)

	n, err := repo.DeleteByBootcamp(ctx, bootcampID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	_, err = repo.GetByID(ctx, c1.ID)
	assert.ErrorIs(t, err, courseDomain.ErrCourseNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, c2.ID), courseDomain.ErrCourseNotFound)
	require.NoError(t, repo.DeleteByID(ctx, other.ID))
}

func TestCourseRepo_ListPopulatesBootcamp(t *testing.T) {
	db := memory.NewDatabase()
	repo := NewCourseRepoMemory(db)
	ctx := context.Background()
	bootcampID := seedBootcamp(t, db, "Devworks")

	require.NoError(t, repo.Create(ctx, newCourse(t, "Front End", 8000, bootcampID)))
	require.NoError(t, repo.Create(ctx, newCourse(t, "Orphan", 100, uuid.New())))

	d := sharedQuery.Translate(map[string]string{"sort": "title"}, courseDomain.PopulateBootcamp)
	env, err := repo.List(ctx, d)
	require.NoError(t, err)
	require.Len(t, env.Data, 2)

	front := env.Data[0]
	require.NotNil(t, front.Bootcamp)
	assert.Equal(t, bootcampID, front.Bootcamp.ID)
	assert.Equal(t, "Devworks", front.Bootcamp.Name)
	assert.Equal(t, "Devworks description", front.Bootcamp.Description)
	assert.Equal(t, bootcampID, front.BootcampID)

	assert.Nil(t, env.Data[1].Bootcamp, "referencia colgante")
}

func TestCourseRepo_ListFilters(t *testing.T) {
	repo := NewCourseRepoMemory(memory.NewDatabase())
	ctx := context.Background()
	bootcampID := uuid.New()
	for i, tuition := range []float64{500, 1500, 2500} {
		require.NoError(t, repo.Create(ctx, newCourse(t, string(rune('A'+i)), tuition, bootcampID)))
	}

	env, err := repo.List(ctx, sharedQuery.Translate(map[string]string{"tuition[gte]": "1000", "sort": "tuition"}))
	require.NoError(t, err)
	require.Len(t, env.Data, 2)
	assert.Equal(t, 1500.0, env.Data[0].Tuition)

	env, err = repo.List(ctx, sharedQuery.Translate(map[string]string{"bootcamp": bootcampID.String()}))
	require.NoError(t, err)
	assert.Len(t, env.Data, 3)
}

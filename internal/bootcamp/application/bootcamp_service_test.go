package application

import (
	"context"
	"errors"
	"testing"
	"time"

	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	"github.com/davicafu/devcamper/internal/bootcamp/infra/outbound/db/document"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/mocks"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStats struct {
	avg float64
	ok  bool
}

func (f *fakeStats) AverageTuition(ctx context.Context, id uuid.UUID) (float64, bool, error) {
	return f.avg, f.ok, nil
}

func (f *fakeStats) AverageRating(ctx context.Context, id uuid.UUID) (float64, bool, error) {
	return f.avg, f.ok, nil
}

type fakeDependents struct {
	deleted []uuid.UUID
}

func (f *fakeDependents) DeleteByBootcamp(ctx context.Context, id uuid.UUID) (int64, error) {
	f.deleted = append(f.deleted, id)
	return 1, nil
}

type fixture struct {
	service  *BootcampService
	repo     *document.BootcampRepo
	cache    *mocks.DummyCache
	geocoder *mocks.StaticGeocoder
	courses  *fakeStats
	reviews  *fakeStats
	deps     *fakeDependents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  document.NewBootcampRepoMemory(memory.NewDatabase()),
		cache: mocks.NewDummyCache(),
		geocoder: &mocks.StaticGeocoder{Places: map[string][]geo.Location{
			"233 bay state rd boston ma 02215": {mocks.Boston02118},
			"02118":                            {mocks.Boston02118},
		}},
		courses: &fakeStats{},
		reviews: &fakeStats{},
		deps:    &fakeDependents{},
	}
	require.NoError(t, f.repo.EnsureIndexes(context.Background()))
	f.service = NewBootcampService(f.repo, f.cache, zap.NewNop(),
		WithGeocoder(f.geocoder),
		WithStats(f.courses, f.reviews),
		WithDependents(f.deps),
	)
	return f
}

func input(name string) bootcampDomain.Bootcamp {
	return bootcampDomain.Bootcamp{
		Name:        name,
		Description: "Devworks is a full stack JavaScript Bootcamp",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development"},
	}
}

var (
	publisher = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}
	admin     = sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RoleAdmin}
)

func TestCreateBootcamp_GeocodesAddress(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.CreateBootcamp(context.Background(), publisher, input("Devworks Bootcamp"))
	require.NoError(t, err)
	assert.Equal(t, publisher.ID, b.User)
	assert.Equal(t, "devworks-bootcamp", b.Slug)
	require.NotNil(t, b.Location)
	assert.Equal(t, "Point", b.Location.Type)
	assert.Equal(t, []float64{mocks.Boston02118.Longitude, mocks.Boston02118.Latitude}, b.Location.Coordinates)
	assert.Equal(t, "Boston", b.Location.City)
}

func TestCreateBootcamp_OnePerPublisher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBootcamp(ctx, publisher, input("First"))
	require.NoError(t, err)

	_, err = f.service.CreateBootcamp(ctx, publisher, input("Second"))
	assert.ErrorIs(t, err, bootcampDomain.ErrAlreadyPublished)

	_, err = f.service.CreateBootcamp(ctx, admin, input("Admin One"))
	require.NoError(t, err)
	_, err = f.service.CreateBootcamp(ctx, admin, input("Admin Two"))
	assert.NoError(t, err)
}

func TestCreateBootcamp_UnknownAddress(t *testing.T) {
	f := newFixture(t)
	in := input("Nowhere")
	in.Address = "Atlantis"

	_, err := f.service.CreateBootcamp(context.Background(), publisher, in)
	assert.True(t, sharedDomain.IsLocationNotFound(err))
}

func TestCreateBootcamp_GeocoderFailure(t *testing.T) {
	f := newFixture(t)
	f.geocoder.Err = errors.New("mapquest down")

	_, err := f.service.CreateBootcamp(context.Background(), publisher, input("Devworks"))
	assert.ErrorIs(t, err, f.geocoder.Err)
}

func TestGetBootcamp_CacheAside(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.service.CreateBootcamp(ctx, publisher, input("Devworks"))
	require.NoError(t, err)

	got, err := f.service.GetBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Eventually(t, func() bool { return f.cache.Has(bootcampDomain.CacheKeyByID(b.ID)) }, time.Second, 10*time.Millisecond)

	owner, err := f.service.OwnerOf(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, publisher.ID, owner)

	_, err = f.service.GetBootcamp(ctx, uuid.New())
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)
}

func TestUpdateBootcamp_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.service.CreateBootcamp(ctx, publisher, input("Devworks"))
	require.NoError(t, err)

	name := "Devworks Reloaded"
	other := sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}
	_, err = f.service.UpdateBootcamp(ctx, other, b.ID, BootcampPatch{Name: &name})
	assert.True(t, sharedDomain.IsForbidden(err))

	updated, err := f.service.UpdateBootcamp(ctx, publisher, b.ID, BootcampPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "devworks-reloaded", updated.Slug)

	housing := true
	updated, err = f.service.UpdateBootcamp(ctx, admin, b.ID, BootcampPatch{Housing: &housing})
	require.NoError(t, err)
	assert.True(t, updated.Housing)
	assert.Equal(t, name, updated.Name)

	bad := []string{"Cooking"}
	_, err = f.service.UpdateBootcamp(ctx, publisher, b.ID, BootcampPatch{Careers: &bad})
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestDeleteBootcamp_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.service.CreateBootcamp(ctx, publisher, input("Devworks"))
	require.NoError(t, err)

	err = f.service.DeleteBootcamp(ctx, sharedDomain.Actor{ID: uuid.New(), Role: sharedDomain.RolePublisher}, b.ID)
	assert.True(t, sharedDomain.IsForbidden(err))
	assert.Empty(t, f.deps.deleted)

	require.NoError(t, f.service.DeleteBootcamp(ctx, publisher, b.ID))
	assert.Equal(t, []uuid.UUID{b.ID}, f.deps.deleted)

	_, err = f.repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, bootcampDomain.ErrBootcampNotFound)
}

func TestBootcampsInRadius(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.CreateBootcamp(ctx, publisher, input("Devworks"))
	require.NoError(t, err)

	found, err := f.service.BootcampsInRadius(ctx, "02118", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.service.BootcampsInRadius(ctx, "99999", 10)
	assert.True(t, sharedDomain.IsLocationNotFound(err))

	_, err = f.service.BootcampsInRadius(ctx, "02118", -1)
	assert.True(t, sharedDomain.IsValidation(err))

	noGeo := NewBootcampService(f.repo, nil, zap.NewNop())
	_, err = noGeo.BootcampsInRadius(ctx, "02118", 10)
	assert.ErrorIs(t, err, geo.ErrGeocoderUnavailable)
}

func TestRecomputeStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.service.CreateBootcamp(ctx, publisher, input("Devworks"))
	require.NoError(t, err)

	f.courses.avg, f.courses.ok = 9995, true
	require.NoError(t, f.service.RecomputeAverageCost(ctx, b.ID))
	f.reviews.avg, f.reviews.ok = 7.666, true
	require.NoError(t, f.service.RecomputeAverageRating(ctx, b.ID))

	got, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageCost)
	assert.Equal(t, 10000.0, *got.AverageCost)
	require.NotNil(t, got.AverageRating)
	assert.Equal(t, 7.7, *got.AverageRating)

	f.courses.ok = false
	require.NoError(t, f.service.RecomputeAverageCost(ctx, b.ID))
	got, _ = f.repo.GetByID(ctx, b.ID)
	assert.Nil(t, got.AverageCost)

	assert.ErrorIs(t, f.service.RecomputeAverageCost(ctx, uuid.New()), bootcampDomain.ErrBootcampNotFound)
}

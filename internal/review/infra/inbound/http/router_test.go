package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/davicafu/devcamper/internal/review/application"
	"github.com/davicafu/devcamper/internal/review/infra/outbound/db/document"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/shared/infra/mocks"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
)

type tokenAuth map[string]sharedDomain.Actor

func (a tokenAuth) Authenticate(ctx context.Context, token string) (sharedDomain.Actor, error) {
	actor, ok := a[token]
	if !ok {
		return sharedDomain.Actor{}, sharedDomain.UnauthorizedError{}
	}
	return actor, nil
}

type bootcampSet map[uuid.UUID]bool

func (b bootcampSet) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if !b[id] {
		return uuid.Nil, sharedDomain.NotFoundError{Resource: "bootcamp", ID: id.String()}
	}
	return uuid.Nil, nil
}

var actors = tokenAuth{
	"alice":     {ID: uuid.New(), Role: sharedDomain.RoleUser},
	"bob":       {ID: uuid.New(), Role: sharedDomain.RoleUser},
	"publisher": {ID: uuid.New(), Role: sharedDomain.RolePublisher},
}

func newTestEngine(t *testing.T) (*gin.Engine, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db := memory.NewDatabase()
	bootcampID := uuid.New()
	require.NoError(t, memory.NewCollection[bson.M](db, document.BootcampsCollection).Insert(context.Background(), bson.M{
		"_id": bootcampID.String(), "name": "Devworks", "description": "Full stack",
	}))
	repo := document.NewReviewRepoMemory(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	bus := &mocks.MockPublisher{}
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	service := application.NewReviewService(repo, bootcampSet{bootcampID: true}, bus, log)

	r := gin.New()
	RegisterReviewRoutes(r.Group("/api/v1"), NewReviewHandler(service, log), middleware.Protect(actors, log), log)
	return r, bootcampID
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func reviewBody(rating int) gin.H {
	return gin.H{"title": "Great", "text": "Loved it", "rating": rating}
}

func TestReviewRoutes(t *testing.T) {
	r, bootcampID := newTestEngine(t)
	nested := "/api/v1/bootcamps/" + bootcampID.String() + "/reviews"

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, nested, "", reviewBody(8)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, nested, "publisher", reviewBody(8)).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, nested, "alice", reviewBody(0)).Code)

	w := do(r, http.MethodPost, nested, "alice", reviewBody(8))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["data"].(map[string]interface{})["id"].(string)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, nested, "alice", reviewBody(2)).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, nested, "bob", reviewBody(4)).Code)

	w = do(r, http.MethodGet, nested, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = do(r, http.MethodGet, "/api/v1/reviews?rating[gte]=5&select=title,rating", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.EqualValues(t, 8, first["rating"])
	assert.NotContains(t, first, "text")
	assert.Equal(t, "Devworks", first["bootcamp"].(map[string]interface{})["name"])

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPut, "/api/v1/reviews/"+id, "bob", gin.H{"rating": 1}).Code)
	w = do(r, http.MethodPut, "/api/v1/reviews/"+id, "alice", gin.H{"rating": 9})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 9, decode(t, w)["data"].(map[string]interface{})["rating"])

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/reviews/"+id, "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/reviews/"+id, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/reviews/not-a-uuid", "", nil).Code)
}

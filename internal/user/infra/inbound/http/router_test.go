package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/shared/infra/mocks"
	"github.com/davicafu/devcamper/internal/shared/infra/platform/db/memory"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/internal/user/infra/auth"
	"github.com/davicafu/devcamper/internal/user/infra/outbound/db/document"
)

type testServer struct {
	engine *gin.Engine
	users  *application.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	repo := document.NewUserRepoMemory(memory.NewDatabase())
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	users := application.NewUserService(repo, mocks.NewDummyCache(), log)
	authSvc := application.NewAuthService(repo, users, auth.NewJWTIssuer("test-secret", time.Hour), log)

	r := gin.New()
	api := r.Group("/api/v1")
	protect := middleware.Protect(authSvc, log)
	RegisterAuthRoutes(api, NewAuthHandler(authSvc, CookieConfig{ExpireDays: 30}, log), protect)
	RegisterUserRoutes(api, NewUserHandler(users, log), protect, log)

	return &testServer{engine: r, users: users}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterAndMe(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "John", "email": "john@gmail.com", "password": "123456", "role": "publisher",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 30*24*60*60, cookies[0].MaxAge)

	w = s.do(http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "john@gmail.com", data["email"])
	assert.Equal(t, "publisher", data["role"])
	assert.NotContains(t, data, "PasswordHash")
}

func TestMe_WithCookie(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.CreateUser(context.Background(), "Ana", "ana@example.com", "123456", "")
	require.NoError(t, err)
	token := s.login(t, "ana@example.com", "123456")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Errors(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.CreateUser(context.Background(), "Ana", "ana@example.com", "123456", "")
	require.NoError(t, err)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w)["error"])
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Root", "email": "root@example.com", "password": "123456", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := gin.H{"name": "A", "email": "a@example.com", "password": "123456"}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/auth/register", "", body).Code)
	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/api/v1/auth/register", "", body).Code)
}

func TestLogout_ExpiresCookie(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "none", cookies[0].Value)
	assert.Equal(t, 10, cookies[0].MaxAge)
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.users.CreateUser(ctx, "Admin", "admin@example.com", "123456", sharedDomain.RoleAdmin)
	require.NoError(t, err)
	_, err = s.users.CreateUser(ctx, "User", "user@example.com", "123456", sharedDomain.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users", "", nil).Code)

	userToken := s.login(t, "user@example.com", "123456")
	w := s.do(http.MethodGet, "/api/v1/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "user role user is not authorized to access this route", decode(t, w)["error"])

	adminToken := s.login(t, "admin@example.com", "123456")
	w = s.do(http.MethodGet, "/api/v1/users?sort=email&limit=1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["count"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Contains(t, pagination, "next")
	assert.NotContains(t, pagination, "prev")
}

func TestUsers_CRUD(t *testing.T) {
	s := newTestServer(t)
	_, err := s.users.CreateUser(context.Background(), "Admin", "admin@example.com", "123456", sharedDomain.RoleAdmin)
	require.NoError(t, err)
	token := s.login(t, "admin@example.com", "123456")

	w := s.do(http.MethodPost, "/api/v1/users", token, gin.H{"name": "Pub", "email": "pub@example.com", "password": "123456", "role": "publisher"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["data"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPut, "/api/v1/users/"+id, token, gin.H{"name": "Publisher"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Publisher", decode(t, w)["data"].(map[string]interface{})["name"])

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/api/v1/users/"+id, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/users/"+id, token, nil).Code)

	w = s.do(http.MethodGet, "/api/v1/users/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found with id of not-a-uuid", decode(t, w)["error"])
}

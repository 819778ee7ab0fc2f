package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/pkg/utils"
)

// UserHandler encapsula los endpoints de administración de usuarios.
type UserHandler struct {
	service *application.UserService
	log     *zap.Logger
}

func NewUserHandler(service *application.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// CreateUser endpoint POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	user, err := h.service.CreateUser(utils.RequestContext(c), req.Name, req.Email, req.Password, sharedDomain.Role(req.Role))
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, user)
}

// GetUser endpoint GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "user")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	user, err := h.service.GetUser(utils.RequestContext(c), id)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, user)
}

// UpdateUser endpoint PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "user")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	var req struct {
		Name     *string            `json:"name,omitempty"`
		Email    *string            `json:"email,omitempty"`
		Role     *sharedDomain.Role `json:"role,omitempty"`
		Password *string            `json:"password,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	user, err := h.service.UpdateUser(utils.RequestContext(c), id, application.UserPatch{
		Name: req.Name, Email: req.Email, Role: req.Role, Password: req.Password,
	})
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, user)
}

// DeleteUser endpoint DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "user")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	if err := h.service.DeleteUser(utils.RequestContext(c), id); err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

// ListUsers endpoint GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	d := sharedQuery.Translate(sharedQuery.FromValues(c.Request.URL.Query()))

	env, err := h.service.ListUsers(utils.RequestContext(c), d)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendEnvelope(c, env, d)
}

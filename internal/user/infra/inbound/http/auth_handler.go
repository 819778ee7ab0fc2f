package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	"github.com/davicafu/devcamper/internal/user/application"
	"github.com/davicafu/devcamper/pkg/utils"
)

// CookieConfig controla la cookie de sesión.
type CookieConfig struct {
	ExpireDays int
	Secure     bool
}

// AuthHandler expone registro, login y la sesión actual.
type AuthHandler struct {
	service *application.AuthService
	cookie  CookieConfig
	log     *zap.Logger
}

func NewAuthHandler(service *application.AuthService, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie, log: log}
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Register endpoint POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
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

	_, token, err := h.service.Register(utils.RequestContext(c), req.Name, req.Email, req.Password, sharedDomain.Role(req.Role))
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	h.sendToken(c, http.StatusOK, token)
}

// Login endpoint POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	_, token, err := h.service.Login(utils.RequestContext(c), req.Email, req.Password)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	h.sendToken(c, http.StatusOK, token)
}

// Me endpoint GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	user, err := h.service.Me(utils.RequestContext(c), actor)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, user)
}

// UpdateDetails endpoint PUT /auth/updatedetails
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	user, err := h.service.UpdateDetails(utils.RequestContext(c), actor, req.Name, req.Email)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, user)
}

// UpdatePassword endpoint PUT /auth/updatepassword
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	token, err := h.service.UpdatePassword(utils.RequestContext(c), actor, req.CurrentPassword, req.NewPassword)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	h.sendToken(c, http.StatusOK, token)
}

// Logout endpoint GET /auth/logout: sustituye la cookie por una que expira en 10s.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "none", 10, "/", "", h.cookie.Secure, true)
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, token string) {
	maxAge := int((time.Duration(h.cookie.ExpireDays) * 24 * time.Hour).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.cookie.Secure, true)
	c.JSON(status, tokenResponse{Success: true, Token: token})
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
)

// RegisterAuthRoutes monta /auth. protect es el middleware de autenticación.
func RegisterAuthRoutes(r *gin.RouterGroup, handler *AuthHandler, protect gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.GET("/logout", handler.Logout)
		auth.GET("/me", protect, handler.Me)
		auth.PUT("/updatedetails", protect, handler.UpdateDetails)
		auth.PUT("/updatepassword", protect, handler.UpdatePassword)
	}
}

// RegisterUserRoutes monta /users, sólo para administradores.
func RegisterUserRoutes(r *gin.RouterGroup, handler *UserHandler, protect gin.HandlerFunc, log *zap.Logger) {
	users := r.Group("/users", protect, middleware.Authorize(log, sharedDomain.RoleAdmin))
	{
		users.POST("", handler.CreateUser)
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateUser)
		users.DELETE("/:id", handler.DeleteUser)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
)

// RegisterCourseRoutes monta /courses y las rutas anidadas /bootcamps/:id/courses.
func RegisterCourseRoutes(r *gin.RouterGroup, handler *CourseHandler, protect gin.HandlerFunc, log *zap.Logger) {
	publisher := middleware.Authorize(log, sharedDomain.RolePublisher, sharedDomain.RoleAdmin)

	courses := r.Group("/courses")
	{
		courses.GET("", handler.ListCourses)
		courses.GET("/:id", handler.GetCourse)
		courses.PUT("/:id", protect, publisher, handler.UpdateCourse)
		courses.DELETE("/:id", protect, publisher, handler.DeleteCourse)
	}

	nested := r.Group("/bootcamps/:id/courses")
	{
		nested.GET("", handler.ListBootcampCourses)
		nested.POST("", protect, publisher, handler.AddCourse)
	}
}

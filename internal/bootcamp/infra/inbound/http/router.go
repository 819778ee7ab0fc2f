package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
)

func RegisterBootcampRoutes(r *gin.RouterGroup, handler *BootcampHandler, protect gin.HandlerFunc, log *zap.Logger) {
	publisher := middleware.Authorize(log, sharedDomain.RolePublisher, sharedDomain.RoleAdmin)

	bootcamps := r.Group("/bootcamps")
	{
		bootcamps.GET("", handler.ListBootcamps)
		bootcamps.GET("/radius/:place/:distance", handler.BootcampsInRadius)
		bootcamps.GET("/:id", handler.GetBootcamp)
		bootcamps.POST("", protect, publisher, handler.CreateBootcamp)
		bootcamps.PUT("/:id", protect, publisher, handler.UpdateBootcamp)
		bootcamps.DELETE("/:id", protect, publisher, handler.DeleteBootcamp)
	}
}

package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
)

// RegisterReviewRoutes monta /reviews y /bootcamps/:id/reviews. Sólo user y admin escriben reseñas.
func RegisterReviewRoutes(r *gin.RouterGroup, handler *ReviewHandler, protect gin.HandlerFunc, log *zap.Logger) {
	reviewer := middleware.Authorize(log, sharedDomain.RoleUser, sharedDomain.RoleAdmin)

	reviews := r.Group("/reviews")
	{
		reviews.GET("", handler.ListReviews)
		reviews.GET("/:id", handler.GetReview)
		reviews.PUT("/:id", protect, reviewer, handler.UpdateReview)
		reviews.DELETE("/:id", protect, reviewer, handler.DeleteReview)
	}

	nested := r.Group("/bootcamps/:id/reviews")
	{
		nested.GET("", handler.ListBootcampReviews)
		nested.POST("", protect, reviewer, handler.AddReview)
	}
}

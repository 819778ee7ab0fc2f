package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/devcamper/internal/review/application"
	reviewDomain "github.com/davicafu/devcamper/internal/review/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/pkg/utils"
)

type ReviewHandler struct {
	service *application.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service *application.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, log: log}
}

// ListReviews endpoint GET /reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	d := sharedQuery.Translate(sharedQuery.FromValues(c.Request.URL.Query()), reviewDomain.PopulateBootcamp)

	env, err := h.service.ListReviews(utils.RequestContext(c), d)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendEnvelope(c, env, d)
}

// ListBootcampReviews endpoint GET /bootcamps/:id/reviews
func (h *ReviewHandler) ListBootcampReviews(c *gin.Context) {
	bootcampID, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	reviews, err := h.service.ListByBootcamp(utils.RequestContext(c), bootcampID)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendList(c, len(reviews), reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "review")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	review, err := h.service.GetReview(utils.RequestContext(c), id)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, review)
}

// AddReview endpoint POST /bootcamps/:id/reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	bootcampID, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	var req reviewDomain.Review
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	review, err := h.service.AddReview(utils.RequestContext(c), actor, bootcampID, req)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "review")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	var patch application.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	review, err := h.service.UpdateReview(utils.RequestContext(c), actor, id, patch)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "review")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := h.service.DeleteReview(utils.RequestContext(c), actor, id); err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

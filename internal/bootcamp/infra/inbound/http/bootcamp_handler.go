package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/devcamper/internal/bootcamp/application"
	bootcampDomain "github.com/davicafu/devcamper/internal/bootcamp/domain"
	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/pkg/utils"
)

// BootcampHandler encapsula los endpoints HTTP de bootcamps.
type BootcampHandler struct {
	service *application.BootcampService
	log     *zap.Logger
}

func NewBootcampHandler(service *application.BootcampService, log *zap.Logger) *BootcampHandler {
	return &BootcampHandler{service: service, log: log}
}

// ListBootcamps endpoint GET /bootcamps
func (h *BootcampHandler) ListBootcamps(c *gin.Context) {
	d := sharedQuery.Translate(sharedQuery.FromValues(c.Request.URL.Query()), bootcampDomain.PopulateCourses)

	env, err := h.service.ListBootcamps(utils.RequestContext(c), d)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendEnvelope(c, env, d)
}

// GetBootcamp endpoint GET /bootcamps/:id
func (h *BootcampHandler) GetBootcamp(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	b, err := h.service.GetBootcamp(utils.RequestContext(c), id)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, b)
}

// CreateBootcamp endpoint POST /bootcamps
func (h *BootcampHandler) CreateBootcamp(c *gin.Context) {
	var req bootcampDomain.Bootcamp
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.CreateBootcamp(utils.RequestContext(c), actor, req)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, b)
}

// UpdateBootcamp endpoint PUT /bootcamps/:id
func (h *BootcampHandler) UpdateBootcamp(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	var patch application.BootcampPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	b, err := h.service.UpdateBootcamp(utils.RequestContext(c), actor, id, patch)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, b)
}

// DeleteBootcamp endpoint DELETE /bootcamps/:id
func (h *BootcampHandler) DeleteBootcamp(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := h.service.DeleteBootcamp(utils.RequestContext(c), actor, id); err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

// BootcampsInRadius endpoint GET /bootcamps/radius/:place/:distance (distancia en millas)
func (h *BootcampHandler) BootcampsInRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		utils.SendDomainError(c, h.log, sharedDomain.ValidationError{
			Fields: map[string]string{"distance": "must be a non-negative number of miles"},
		})
		return
	}

	bootcamps, err := h.service.BootcampsInRadius(utils.RequestContext(c), c.Param("place"), distance)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendList(c, len(bootcamps), bootcamps)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/davicafu/devcamper/internal/course/application"
	courseDomain "github.com/davicafu/devcamper/internal/course/domain"
	"github.com/davicafu/devcamper/internal/shared/infra/http/middleware"
	sharedQuery "github.com/davicafu/devcamper/internal/shared/infra/platform/query"
	"github.com/davicafu/devcamper/pkg/utils"
)

type CourseHandler struct {
	service *application.CourseService
	log     *zap.Logger
}

func NewCourseHandler(service *application.CourseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{service: service, log: log}
}

// ListCourses endpoint GET /courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	d := sharedQuery.Translate(sharedQuery.FromValues(c.Request.URL.Query()), courseDomain.PopulateBootcamp)

	env, err := h.service.ListCourses(utils.RequestContext(c), d)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendEnvelope(c, env, d)
}

// ListBootcampCourses endpoint GET /bootcamps/:id/courses (sin paginar)
func (h *CourseHandler) ListBootcampCourses(c *gin.Context) {
	bootcampID, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	courses, err := h.service.ListByBootcamp(utils.RequestContext(c), bootcampID)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendList(c, len(courses), courses)
}

// GetCourse endpoint GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "course")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	course, err := h.service.GetCourse(utils.RequestContext(c), id)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, course)
}

// AddCourse endpoint POST /bootcamps/:id/courses
func (h *CourseHandler) AddCourse(c *gin.Context) {
	bootcampID, err := utils.ParamID(c, "id", "bootcamp")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	var req courseDomain.Course
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	course, err := h.service.AddCourse(utils.RequestContext(c), actor, bootcampID, req)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, course)
}

// UpdateCourse endpoint PUT /courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "course")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	var patch application.CoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendBadRequest(c, "invalid request body")
		return
	}

	actor, _ := middleware.CurrentActor(c)
	course, err := h.service.UpdateCourse(utils.RequestContext(c), actor, id, patch)
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, course)
}

// DeleteCourse endpoint DELETE /courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, err := utils.ParamID(c, "id", "course")
	if err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}

	actor, _ := middleware.CurrentActor(c)
	if err := h.service.DeleteCourse(utils.RequestContext(c), actor, id); err != nil {
		utils.SendDomainError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, gin.H{})
}

// en pkg/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse envuelve un único recurso.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ListResponse es la forma de los listados sin paginar.
type ListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

const serverErrorMessage = "server error"

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Success: true, Data: data})
}

// SendList envía un listado sin paginación.
func SendList(c *gin.Context, count int, data interface{}) {
	c.JSON(http.StatusOK, ListResponse{Success: true, Count: count, Data: data})
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Success: false, Error: message})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// StatusFor traduce los errores tipados del dominio a un código HTTP.
func StatusFor(err error) int {
	switch {
	case sharedDomain.IsValidation(err), sharedDomain.IsLocationNotFound(err):
		return http.StatusBadRequest
	case sharedDomain.IsUnauthorized(err):
		return http.StatusUnauthorized
	case sharedDomain.IsForbidden(err):
		return http.StatusForbidden
	case sharedDomain.IsNotFound(err):
		return http.StatusNotFound
	case sharedDomain.IsConflict(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// SendDomainError responde con el código que corresponde a err. Los 500 nunca
// exponen la causa: se registra y el cliente recibe un mensaje genérico.
func SendDomainError(c *gin.Context, log *zap.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		var qe *sharedDomain.QueryExecutionError
		fields := []zap.Field{zap.String("path", c.Request.URL.Path), zap.Error(err)}
		if errors.As(err, &qe) {
			fields = append(fields, zap.String("op", qe.Op))
		}
		log.Error("Request failed", fields...)
		SendInternalServerError(c, serverErrorMessage)
		return
	}
	SendError(c, status, err.Error())
}

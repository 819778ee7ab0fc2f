package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
)

// RequestContext desacopla el contexto de la petición de su cancelación: si el cliente
// corta la conexión, la consulta en curso termina igualmente.
func RequestContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// ParamID lee un path param como UUID. Un id mal formado no puede existir, así que se
// responde igual que a uno inexistente.
func ParamID(c *gin.Context, name, resource string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, sharedDomain.NotFoundError{Resource: resource, ID: raw}
	}
	return id, nil
}

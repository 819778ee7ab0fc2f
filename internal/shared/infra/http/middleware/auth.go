package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/devcamper/internal/shared/domain"
	"github.com/davicafu/devcamper/pkg/utils"
)

const (
	actorKey    = "actor"
	TokenCookie = "token"
)

// Authenticator resuelve un token en el actor que lo posee.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (sharedDomain.Actor, error)
}

// Protect exige un token válido en la cabecera Bearer o, en su defecto, en la cookie.
func Protect(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token == "" {
			utils.SendDomainError(c, log, sharedDomain.UnauthorizedError{})
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("Authentication failed", zap.String("request_id", GetRequestID(c)), zap.Error(err))
			utils.SendDomainError(c, log, sharedDomain.UnauthorizedError{})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// Authorize restringe la ruta a los roles indicados. Debe ir después de Protect.
func Authorize(log *zap.Logger, roles ...sharedDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			utils.SendDomainError(c, log, sharedDomain.UnauthorizedError{})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		utils.SendDomainError(c, log, sharedDomain.ForbiddenError{
			Msg: "user role " + string(actor.Role) + " is not authorized to access this route",
		})
	}
}

func CurrentActor(c *gin.Context) (sharedDomain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return sharedDomain.Actor{}, false
	}
	actor, ok := v.(sharedDomain.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

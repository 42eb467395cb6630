package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelaav-backend/internal/domain/entity"
	"github.com/ignatzorin/freelaav-backend/internal/interface/http/response"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
	ContextActorKey  = "actor"
)

// AccessParser проверяет access токен внешнего сервиса аутентификации.
type AccessParser interface {
	ParseAccess(token string) (entity.Actor, error)
}

// AuthMiddleware проверяет Bearer токен и кладёт actor в контекст.
func AuthMiddleware(tokens AccessParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		actor, err := tokens.ParseAccess(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		SetActor(c, actor)
		c.Next()
	}
}

func SetActor(c *gin.Context, actor entity.Actor) {
	c.Set(ContextUserIDKey, actor.ID)
	c.Set(ContextRoleKey, string(actor.Role))
	c.Set(ContextActorKey, actor)
}

// ActorFrom возвращает actor, положенный AuthMiddleware.
func ActorFrom(c *gin.Context) (entity.Actor, bool) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return entity.Actor{}, false
	}
	actor, ok := raw.(entity.Actor)
	return actor, ok
}

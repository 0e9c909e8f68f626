package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
)

// Заголовки, через которые внешний провайдер аутентификации передаёт пользователя.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"

	identityKey = "identity"
)

// identityMiddleware кладёт Identity из заголовков в контекст. Содержимое не проверяется.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, domain.Identity{
			ID:   strings.TrimSpace(c.GetHeader(HeaderUserID)),
			Name: strings.TrimSpace(c.GetHeader(HeaderUserName)),
			Role: domain.Role(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole)))),
		})
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(domain.Identity); ok {
			return identity
		}
	}
	return domain.Identity{}
}

// requireIdentity отклоняет запросы без ID и имени пользователя.
func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity.ID == "" || identity.Name == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "user identity headers are required")
			return
		}
		c.Next()
	}
}

// requireAdmin пропускает только администраторов.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).IsAdmin() {
			abortWithError(c, http.StatusForbidden, "FORBIDDEN", domain.ErrForbidden.Error())
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Authenticator resolves a raw bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*entity.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))

		// Browsers cannot set headers on a websocket handshake, so only an
		// upgrade request may carry the token in the query string.
		if tokenString == "" && websocket.IsWebSocketUpgrade(c.Request) {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			response.ResponseError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := m.auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		response.SetCurrentUser(c, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := response.CurrentUser(c)
		if err != nil {
			response.ResponseError(c, err)
			c.Abort()
			return
		}

		if user.Role != role {
			response.ResponseError(c, fmt.Errorf("%s access required: %w", role, apperror.ErrForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwtpkg "rachas/hub/pkg/jwt"
	"rachas/hub/pkg/response"
)

const ContextKeyActorID = "actor_id"

// JWTAuth accepts a Bearer access token and stores the acting player's id
// under ContextKeyActorID.
func JWTAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "invalid authorization format")
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if claims.TokenType != jwtpkg.TokenTypeAccess {
			response.Unauthorized(c, "invalid token type")
			c.Abort()
			return
		}

		actorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.Unauthorized(c, "invalid player id")
			c.Abort()
			return
		}

		c.Set(ContextKeyActorID, actorID)
		c.Next()
	}
}

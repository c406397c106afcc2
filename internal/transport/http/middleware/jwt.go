package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"miniblog/internal/pkg/jwtutil"
	"miniblog/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUserNameKey = "user_name"
	ContextTokenIDKey  = "token_jti"
	ContextTokenExpKey = "token_exp"
)

// TokenChecker answers whether a token was revoked by a logout.
type TokenChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func AuthJWT(secret string, revoked TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil || claims.ExpiresAt == nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if revoked != nil {
			// Fail closed when the revocation list is unreachable.
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil || isRevoked {
				response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserNameKey, claims.Name)
		c.Set(ContextTokenIDKey, claims.ID)
		c.Set(ContextTokenExpKey, claims.ExpiresAt.Time)
		c.Next()
	}
}

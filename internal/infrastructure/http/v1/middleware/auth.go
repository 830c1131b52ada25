package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"librairie/internal/core/apperror"
	"librairie/internal/core/reqctx"
)

// TokenValidator validates a bearer token and returns the register user.
type TokenValidator interface {
	ValidateToken(tokenString string) (reqctx.User, error)
}

// Auth validates JWT tokens and populates the user context. The user id on
// the token is the cart owner id for every register operation.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := reqctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.ID.String())
		c.Set("role", user.Role)

		c.Next()
	}
}

// RequireRole rejects requests whose authenticated user lacks the role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := reqctx.GetUser(c.Request.Context())
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if user.Role != role {
			_ = c.Error(apperror.NewForbidden("insufficient role").
				WithDetail("required", role))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"payflow/apperrors"
	"payflow/services"
)

// ClaimsKey is the gin context key the validated claims are stored under.
const ClaimsKey = "authClaims"

// AuthMiddleware enforces a valid bearer token on every request it fronts.
// A missing header, wrong scheme or failed validation all abort with the
// same generic 401 body.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(apperrors.ErrUnauthorized.Code, gin.H{"error": apperrors.ErrUnauthorized.Message})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(apperrors.ErrUnauthorized.Code, gin.H{"error": apperrors.ErrUnauthorized.Message})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims attached by AuthMiddleware, if any.
func GetClaims(c *gin.Context) (*services.Claims, bool) {
	val, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := val.(*services.Claims)
	return claims, ok
}

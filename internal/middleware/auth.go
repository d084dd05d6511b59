package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/constants"
	apierrors "github.com/yukikurage/organization-service/internal/errors"
)

// RequireAuth checks for a valid bearer token and stores its claims in the context
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			apierrors.Unauthorized(c, "Authorization header missing")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, constants.BearerScheme) || token == "" {
			apierrors.Unauthorized(c, "Invalid token")
			return
		}

		claims, ok := tokens.Verify(strings.TrimSpace(token))
		if !ok {
			apierrors.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(constants.ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the verified token claims from context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}

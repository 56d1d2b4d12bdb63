package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/apierr"
)

// Context key for the verified claim set
const ContextKeyClaims = "auth_claims"

// Middleware authenticates requests carrying an access token.
type Middleware struct {
	issuer *TokenIssuer
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(issuer *TokenIssuer) *Middleware {
	return &Middleware{issuer: issuer}
}

// RequireAuth verifies the Authorization header and stores the claim set in
// the request context. The header may carry the raw token or use the
// standard "Bearer <token>" form.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "user.not_authenticated", "Could not validate credentials")
			return
		}

		claims, err := m.issuer.VerifyAccess(extractToken(header))
		if err != nil {
			abortUnauthorized(c, "user.not_authenticated", "Invalid or expired token")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// extractToken strips an optional "Bearer " prefix.
func extractToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return header
}

func abortUnauthorized(c *gin.Context, errType, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierr.New(errType, msg))
}

// CurrentClaims retrieves the verified claim set from the Gin context.
// Returns nil when the request was not authenticated.
func CurrentClaims(c *gin.Context) *Claims {
	if v, exists := c.Get(ContextKeyClaims); exists {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// CurrentUserID retrieves the authenticated subject id, or "".
func CurrentUserID(c *gin.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.Subject
	}
	return ""
}

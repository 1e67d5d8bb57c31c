package middleware

import (
	"net/http"
	"strings"

	"fuelops/internal/domain"
	"fuelops/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	actorKey        = "actor"
	accessCookie    = "access_token"
	accessCookieAge = 3600 * 24
)

// TokenParser turns a session token into the actor it names.
type TokenParser interface {
	Parse(token string) (domain.Actor, error)
}

// SetTokenCookie stores the session token as an HttpOnly cookie.
// Cross-site deployments need SameSite=None with Secure.
func SetTokenCookie(c *gin.Context, token string, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(accessCookie, token, accessCookieAge, "/", "", secure, true)
}

// ClearTokenCookie removes the session cookie.
func ClearTokenCookie(c *gin.Context, secure bool) {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(accessCookie, "", -1, "/", "", secure, true)
}

func extractToken(c *gin.Context) (string, string) {
	// Try cookie first, fallback to Authorization header
	if token, err := c.Cookie(accessCookie); err == nil && token != "" {
		return token, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// Authenticate validates the session token and stores the actor in the context.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := extractToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		actor, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireCapability rejects actors whose role lacks the capability.
// Station scope is checked by the services.
func RequireCapability(capability domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}
		if !domain.Can(actor, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+string(capability)+"'"))
			return
		}
		c.Next()
	}
}

// CurrentActor returns the actor set by Authenticate.
func CurrentActor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

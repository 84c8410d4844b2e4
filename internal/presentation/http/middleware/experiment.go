// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopcanopy/splitrank-go/internal/application/services"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/security"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

const (
	// SessionCookieName carries the guest session token between requests.
	SessionCookieName = "splitrank_session"
	// SessionHeaderName is the header alternative for API clients.
	SessionHeaderName = "X-SplitRank-Session-ID"

	identityKey   = "splitrank_identity"
	assignmentKey = "splitrank_assignment"

	sessionCookieMaxAge = 60 * 60 * 24
)

// ResolveIdentity normalizes every request into a stable identity: the
// authenticated user id when a valid bearer token is present, otherwise a
// guest session token (created on demand, so an unauthenticated request
// always has a session).
func ResolveIdentity(authService *services.AuthService, cache *manager.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if userID := authService.ValidateToken(token); userID > 0 {
			c.Set(identityKey, experiment.RegisteredIdentity(userID))
			c.Next()
			return
		}

		sessionToken := c.GetHeader(SessionHeaderName)
		if sessionToken == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionToken = cookie
			}
		}

		if sessionToken == "" {
			sessionToken = security.GenerateULID()
			cache.CreateSession(sessionToken)
			c.SetCookie(SessionCookieName, sessionToken, sessionCookieMaxAge, "/", "", false, true)
			c.Header(SessionHeaderName, sessionToken)
		} else if _, ok := cache.GetSession(sessionToken); !ok {
			cache.CreateSession(sessionToken)
		} else {
			cache.TouchSession(sessionToken)
		}

		c.Set(identityKey, experiment.GuestIdentity(sessionToken))
		c.Next()
	}
}

// AssignRecommendationGroup resolves the sticky experiment group for the
// request identity and attaches the assignment to the request context. It
// never aborts: the assignment service always yields a valid group.
func AssignRecommendationGroup(assignmentService *services.AssignmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			// ResolveIdentity was not installed ahead of us; treat as a
			// fresh guest so the request still gets a group.
			ident = experiment.GuestIdentity(security.GenerateULID())
			c.Set(identityKey, ident)
		}

		assignment := assignmentService.GetOrAssign(ident, config.ActiveExperiment)
		c.Set(assignmentKey, assignment)
		c.Next()
	}
}

// GetIdentity returns the resolved identity for the request.
func GetIdentity(c *gin.Context) (experiment.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return experiment.Identity{}, false
	}
	ident, ok := value.(experiment.Identity)
	return ident, ok
}

// GetAssignment returns the experiment assignment for the request.
func GetAssignment(c *gin.Context) (services.Assignment, bool) {
	value, exists := c.Get(assignmentKey)
	if !exists {
		return services.Assignment{}, false
	}
	assignment, ok := value.(services.Assignment)
	return assignment, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

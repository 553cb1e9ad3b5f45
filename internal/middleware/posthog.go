package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/auth_session_service/internal/utils"
	"github.com/gin-gonic/gin"
)

// posthogEventSentKey marks a request whose handler already emitted a named event.
const posthogEventSentKey = contextKey("posthogEventSent")

// untrackedRoutePrefixes are operational routes that never reach PostHog.
var untrackedRoutePrefixes = []string{"/health", "/metrics", "/swagger/"}

// PosthogMiddleware reports successful authenticated requests as utils.EventAPIRequest,
// keyed by route template (e.g. GET /api/v1/users/me). Requests whose handler called
// PosthogEvent are not reported twice, and the :provider param is attached when present.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() {
			return
		}
		route := c.FullPath()
		if route == "" || isUntrackedRoute(route) {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if c.GetBool(string(posthogEventSentKey)) {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		props := map[string]any{
			"route":       route,
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if provider := c.Param("provider"); provider != "" {
			props["provider"] = strings.ToLower(provider)
		}
		posthogClient.Enqueue(userID, utils.EventAPIRequest, props)
	}
}

func isUntrackedRoute(route string) bool {
	for _, prefix := range untrackedRoutePrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

// PosthogEvent sends a named event from a handler. userID overrides the
// authenticated user, which login and register handlers need since the
// request itself carries no access token.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, userID, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}

	if userID == "" {
		var exists bool
		if userID, exists = GetUserIDFromContext(c); !exists {
			return
		}
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	properties["method"] = c.Request.Method

	posthogClient.Enqueue(userID, eventName, properties)
	c.Set(string(posthogEventSentKey), true)
}

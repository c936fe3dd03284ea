package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader  = "X-API-Key"
	apiKeyQuery   = "api_key" // fallback for proxies that strip headers
	sessionCookie = "session"
)

// deviceAuth admits only requests presenting the device's shared API key.
func (h *Handler) deviceAuth(c *gin.Context) {
	if !h.isDevice(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

// sessionOrDevice admits a logged-in operator or the device.
func (h *Handler) sessionOrDevice(c *gin.Context) {
	if h.isLoggedIn(c) || h.isDevice(c) {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

func (h *Handler) isDevice(c *gin.Context) bool {
	key := c.GetHeader(apiKeyHeader)
	if key == "" {
		key = c.Query(apiKeyQuery)
	}
	return h.services.Session.VerifyAPIKey(key)
}

// isLoggedIn accepts the session cookie or an Authorization: Bearer token.
func (h *Handler) isLoggedIn(c *gin.Context) bool {
	token := h.sessionToken(c)
	if token == "" {
		return false
	}
	return h.services.Session.VerifyToken(token) == nil
}

func (h *Handler) sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

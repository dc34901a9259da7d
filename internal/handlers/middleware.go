package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userCtxKey        = "userId"
	sessionCookieName = "session"
)

// extractToken pulls the session token from the Authorization header, the
// session cookie, or (for WebSocket clients) the token query parameter.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// userIdentity guards API routes: resolves the token to a user ID and
// stores it in the Gin context, answering 401 otherwise.
func (h *Handler) userIdentity(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing session token",
		})
		return
	}

	userID, err := h.services.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired session",
		})
		return
	}

	c.Set(userCtxKey, userID)
	c.Next()
}

// pageIdentity guards server-rendered pages: same resolution as
// userIdentity, but anonymous visitors are redirected to the login page.
func (h *Handler) pageIdentity(c *gin.Context) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil || token == "" {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	userID, err := h.services.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.clearSessionCookie(c)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set(userCtxKey, userID)
	c.Next()
}

// currentUserID reads the authenticated user ID set by the identity
// middleware. Zero means the route was wired without a guard.
func currentUserID(c *gin.Context) int {
	id, _ := c.Get(userCtxKey)
	userID, _ := id.(int)
	return userID
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", false, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
}

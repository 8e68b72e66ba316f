package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName   = "token"
	sessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second) // 30 days, matches token TTL

	ctxUserID   = "userId"
	ctxUsername = "username"
)

// sessionMiddleware resolves the current user from the session cookie or a
// Bearer header. An absent token is unauthenticated, not an error.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token := tokenFromRequest(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
		return
	}

	claims, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Next()
}

// tokenFromRequest prefers the http-only cookie and falls back to an
// Authorization: Bearer header for non-browser clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// currentUserID returns the authenticated user id set by sessionMiddleware.
func currentUserID(c *gin.Context) string {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(string)
	return id
}

// setSessionCookie attaches the token as an http-only, same-site-strict cookie.
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, token, sessionCookieMaxAge, "/", "", h.secureCookies, true)
}

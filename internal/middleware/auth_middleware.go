package middleware

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/logger"
)

// LoginPath is where unauthenticated callers are sent
const LoginPath = "/login/"

// SessionAuthenticator resolves a session token to a principal
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*appAuth.Principal, error)
}

// SessionCookie describes the cookie carrying the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set writes token to the response, expiring at expiresAt
func (s SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, maxAge, "/", "", s.Secure, true)
}

// Clear removes the cookie from the client
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// Token returns the session token sent by the client, if any
func (s SessionCookie) Token(c *gin.Context) string {
	token, err := c.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return token
}

// AuthMiddleware loads sessions and gates routes by role
type AuthMiddleware struct {
	sessions SessionAuthenticator
	cookie   SessionCookie
	views    *views.Renderer
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionAuthenticator, cookie SessionCookie, views *views.Renderer) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		cookie:   cookie,
		views:    views,
	}
}

// LoadSession attaches the principal of a valid session cookie to the request.
// Expired or revoked sessions are cleared and the request continues anonymously.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.cookie.Token(c)
		if token == "" {
			c.Next()
			return
		}

		principal, err := m.sessions.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			appAuth.SetPrincipal(c, principal)
		case apperrors.Is(err, apperrors.ErrUnauthenticated, apperrors.ErrSessionExpired, apperrors.ErrSessionRevoked, apperrors.ErrAccountDisabled):
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Discarding session cookie")
			m.cookie.Clear(c)
		default:
			HandleError(c, m.views, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRequired redirects anonymous callers to the login page
func (m *AuthMiddleware) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appAuth.PrincipalFrom(c).IsAuthenticated() {
			RedirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired redirects anonymous callers to login and answers 403 to non-admins
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := appAuth.PrincipalFrom(c)
		if err := appAuth.RequireAdmin(principal); err != nil {
			if principal.IsAuthenticated() {
				logger.Warn().
					Int64("userID", principal.UserID()).
					Str("path", c.Request.URL.Path).
					Msg("Non-admin denied access to admin route")
			}
			HandleError(c, m.views, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectToLogin sends a 303 to the login page, keeping the current path in next
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

const (
	principalKey = "principal"

	// AdminLandingPath is where staff and superusers land after login
	AdminLandingPath = "/admin-dashboard/"
	// DefaultLandingPath is where everyone else lands
	DefaultLandingPath = "/"
)

// Principal is the authenticated user attached to a request
type Principal struct {
	User      *models.User
	SessionID string
}

// NewPrincipal creates a principal for user authenticated by sessionID
func NewPrincipal(user *models.User, sessionID string) *Principal {
	return &Principal{User: user, SessionID: sessionID}
}

// IsAuthenticated reports whether p carries a user
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.User != nil
}

// IsAdmin is true for superusers, staff and accounts with the admin role
func (p *Principal) IsAdmin() bool {
	if !p.IsAuthenticated() {
		return false
	}
	u := p.User
	return u.IsSuperuser || u.IsStaff || u.RoleType == models.RoleAdmin
}

// UserID returns the id of the user, or 0 for anonymous callers
func (p *Principal) UserID() int64 {
	if !p.IsAuthenticated() {
		return 0
	}
	return p.User.ID
}

// Username returns the username, or an empty string for anonymous callers
func (p *Principal) Username() string {
	if !p.IsAuthenticated() {
		return ""
	}
	return p.User.Username
}

// LandingPath returns the default page after login
func (p *Principal) LandingPath() string {
	if p.IsAuthenticated() && (p.User.IsStaff || p.User.IsSuperuser) {
		return AdminLandingPath
	}
	return DefaultLandingPath
}

// RequireAuthenticated returns ErrUnauthenticated for anonymous callers
func RequireAuthenticated(p *Principal) error {
	if !p.IsAuthenticated() {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin rejects anonymous callers first, then non-admins
func RequireAdmin(p *Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperrors.NewForbiddenError("you don't have permission for this action")
	}
	return nil
}

// SetPrincipal attaches p to the request context
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal of the request, or nil
func PrincipalFrom(c *gin.Context) *Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*Principal)
	return p
}

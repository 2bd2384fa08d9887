package middleware

import (
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/access"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/constants"
	apierrors "github.com/crusher0311/maddenco-dvi-dashboard/internal/errors"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks the session cookie and exposes the caller's identity
// (username, role, org) to downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, _ := session.Get(constants.SessionKeyUsername).(string)
		if username == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, _ := session.Get(constants.SessionKeyRole).(string)
		org, _ := session.Get(constants.SessionKeyOrg).(string)

		c.Set(constants.ContextKeyIdentity, access.Identity{
			Username: username,
			Role:     models.Role(role),
			Org:      org,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-administrator callers. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !id.IsAdmin() {
			apierrors.Forbidden(c, "Administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context.
func GetIdentity(c *gin.Context) (access.Identity, bool) {
	v, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return access.Identity{}, false
	}
	id, ok := v.(access.Identity)
	return id, ok
}

// SaveSessionIdentity writes the user's identity into the session cookie.
func SaveSessionIdentity(session sessions.Session, user *models.User) error {
	session.Set(constants.SessionKeyUsername, user.Username)
	session.Set(constants.SessionKeyRole, string(user.Role))
	org := ""
	if user.Role == models.RoleUser {
		org = user.Org
	}
	session.Set(constants.SessionKeyOrg, org)
	return session.Save()
}

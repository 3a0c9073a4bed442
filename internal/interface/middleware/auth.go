package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
	"github.com/adiwidodo/member-portal/pkg/render"
	"github.com/adiwidodo/member-portal/pkg/session"
)

// LoadSession resolves the request's session cookie into the current user
// and stores it in the Gin context. It never aborts: an invalid or absent
// cookie just leaves the request anonymous. Handlers read identity from
// the context, never from a global.
func LoadSession(mgr *session.Manager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := mgr.Verify(c); ok {
			if u, err := users.GetByID(c.Request.Context(), id); err == nil && u != nil {
				c.Set(render.CtxUserKey, u)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated account bound to the request, or
// nil when the request is anonymous.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get(render.CtxUserKey); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// RequireAuth redirects anonymous requests to the login view, carrying the
// originally requested path and query as the next parameter so login can
// forward back afterward.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUserType renders Forbidden for authenticated requests lacking the
// named user type. Register it after RequireAuth so an anonymous request
// gets the login redirect instead of a 403.
func RequireUserType(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.HasType(name) {
			render.HTML(c, http.StatusForbidden, "403.html", gin.H{"Title": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

package render

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates. Pages are addressed by
// file name ("login.html"); shared partials are named defines.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

const (
	flashCookie = "portal_flash"
	// ctx key holding flashes added during the current request so they
	// show up on a same-request re-render, not only after a redirect
	ctxFlashKey = "pending_flashes"
	// CtxUserKey holds the *entity.User loaded by the session middleware.
	CtxUserKey = "current_user"
)

// Flash is a one-shot message surfaced on the next rendered page.
type Flash struct {
	Category string `json:"category"` // success, info, warning, danger
	Message  string `json:"message"`
}

// AddFlash queues a flash for the next render, surviving one redirect via
// a short-lived cookie.
func AddFlash(c *gin.Context, category, message string) {
	pending := pendingFlashes(c)
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(ctxFlashKey, pending)

	b, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 300, "/", "", false, true)
}

func pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(ctxFlashKey); ok {
		if f, ok := v.([]Flash); ok {
			return f
		}
	}
	return nil
}

// takeFlashes drains flashes from both the request cookie and the current
// request context, clearing the cookie.
func takeFlashes(c *gin.Context) []Flash {
	var out []Flash
	if raw, err := c.Cookie(flashCookie); err == nil && raw != "" {
		if b, derr := base64.RawURLEncoding.DecodeString(raw); derr == nil {
			var stored []Flash
			if json.Unmarshal(b, &stored) == nil {
				out = stored
			}
		}
	}
	for _, f := range pendingFlashes(c) {
		dup := false
		for _, seen := range out {
			if seen == f {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	c.Set(ctxFlashKey, []Flash(nil))
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return out
}

// HTML renders a page template with the ambient context every page needs:
// drained flash messages and the current user, if any.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = takeFlashes(c)
	if _, ok := data["Form"]; !ok {
		data["Form"] = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = gin.H{}
	}
	if u, ok := c.Get(CtxUserKey); ok {
		data["CurrentUser"] = u
	}
	c.HTML(status, name, data)
}

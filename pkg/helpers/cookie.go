package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "session_token"

type CookieManager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure}
}

// SetSession stores the signed session token. With remember set the cookie
// persists until exp; otherwise it is a browser-session cookie and dies
// with the client.
func (m *CookieManager) SetSession(c *gin.Context, token string, exp time.Time, remember bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := 0
	if remember {
		maxAge = maxAgeFrom(exp)
	}
	c.SetCookie(SessionCookie, token, maxAge, "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}

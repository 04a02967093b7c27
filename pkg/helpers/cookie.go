package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the session token for browser clients.
const SessionCookieName = "access_token"

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetToken writes the session cookie. Without remember the cookie lives for
// the browser session only.
func (m *Manager) SetToken(c *gin.Context, token string, exp time.Time, remember bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := 0
	if remember {
		maxAge = maxAgeFrom(exp)
	}
	c.SetCookie(SessionCookieName, token, maxAge, "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}

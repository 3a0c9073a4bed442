package session

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adiwidodo/member-portal/pkg/helpers"
)

// Session is the server-side binding of a client to an authenticated
// account. The signed cookie token carries (account id, sid); the stored
// sid must match or the cookie is treated as anonymous.
type Session struct {
	AccountID int64
	SID       string
	Remember  bool
	CreatedAt time.Time
}

// Store persists sessions keyed by account id. One active session per
// account; a later login displaces the earlier sid.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, accountID int64) (*Session, error)
	Delete(ctx context.Context, accountID int64) error
}

// Manager moves a request between the Anonymous and Authenticated states.
type Manager struct {
	Store       Store
	Tokens      *helpers.TokenManager
	Cookies     *helpers.CookieManager
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

func NewManager(store Store, tokens *helpers.TokenManager, cookies *helpers.CookieManager, sessionTTL, rememberTTL time.Duration) *Manager {
	return &Manager{
		Store:       store,
		Tokens:      tokens,
		Cookies:     cookies,
		SessionTTL:  sessionTTL,
		RememberTTL: rememberTTL,
	}
}

// Login binds the request's client to the account. With remember set the
// cookie and the stored session outlive the browser session.
func (m *Manager) Login(c *gin.Context, accountID int64, remember bool) error {
	sid := uuid.NewString()
	ttl := m.SessionTTL
	if remember {
		ttl = m.RememberTTL
	}
	token, exp, err := m.Tokens.IssueSession(accountID, sid, ttl)
	if err != nil {
		return err
	}
	sess := &Session{
		AccountID: accountID,
		SID:       sid,
		Remember:  remember,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.Store.Save(c.Request.Context(), sess, ttl); err != nil {
		return err
	}
	m.Cookies.SetSession(c, token, exp, remember)
	return nil
}

// Logout unconditionally clears the binding. It never fails: a dangling
// store entry expires on its own.
func (m *Manager) Logout(c *gin.Context) {
	if id, ok := m.Verify(c); ok {
		_ = m.Store.Delete(c.Request.Context(), id)
	}
	m.Cookies.ClearSession(c)
}

// Verify returns the account id bound to the request's session cookie, or
// false when the request is anonymous, the token is invalid, or the stored
// session id no longer matches.
func (m *Manager) Verify(c *gin.Context) (int64, bool) {
	token, err := c.Cookie(helpers.SessionCookie)
	if err != nil || token == "" {
		return 0, false
	}
	id, sid, err := m.Tokens.ParseSession(token)
	if err != nil {
		return 0, false
	}
	sess, err := m.Store.Get(c.Request.Context(), id)
	if err != nil || sess == nil || sess.SID != sid {
		return 0, false
	}
	return id, true
}

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiwidodo/member-portal/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestManager() *Manager {
	tokens := helpers.NewTokenManager("session-secret", "reset-secret", 30*time.Minute)
	cookies := helpers.NewCookie("", false)
	return NewManager(NewMemoryStore(), tokens, cookies, time.Hour, 720*time.Hour)
}

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginThenVerify(t *testing.T) {
	mgr := newTestManager()

	c, rec := testContext(t)
	if err := mgr.Login(c, 42, false); err != nil {
		t.Fatalf("Login: %v", err)
	}
	ck := sessionCookieFrom(t, rec)
	if ck.MaxAge != 0 {
		t.Fatalf("non-remember cookie has MaxAge=%d, want session cookie", ck.MaxAge)
	}

	c2, _ := testContext(t)
	c2.Request.AddCookie(ck)
	id, ok := mgr.Verify(c2)
	if !ok || id != 42 {
		t.Fatalf("Verify = (%d, %v), want (42, true)", id, ok)
	}
}

func TestRememberCookiePersists(t *testing.T) {
	mgr := newTestManager()

	c, rec := testContext(t)
	if err := mgr.Login(c, 42, true); err != nil {
		t.Fatalf("Login: %v", err)
	}
	ck := sessionCookieFrom(t, rec)
	if ck.MaxAge <= 0 {
		t.Fatalf("remember cookie has MaxAge=%d, want positive", ck.MaxAge)
	}
}

func TestVerifyAnonymous(t *testing.T) {
	mgr := newTestManager()
	c, _ := testContext(t)
	if id, ok := mgr.Verify(c); ok {
		t.Fatalf("anonymous request verified as account %d", id)
	}
}

func TestSecondLoginDisplacesFirst(t *testing.T) {
	mgr := newTestManager()

	c1, rec1 := testContext(t)
	if err := mgr.Login(c1, 42, false); err != nil {
		t.Fatalf("first Login: %v", err)
	}
	first := sessionCookieFrom(t, rec1)

	c2, rec2 := testContext(t)
	if err := mgr.Login(c2, 42, false); err != nil {
		t.Fatalf("second Login: %v", err)
	}
	second := sessionCookieFrom(t, rec2)

	// The stored sid now belongs to the second login.
	stale, _ := testContext(t)
	stale.Request.AddCookie(first)
	if id, ok := mgr.Verify(stale); ok {
		t.Fatalf("displaced session still verified as account %d", id)
	}

	fresh, _ := testContext(t)
	fresh.Request.AddCookie(second)
	if _, ok := mgr.Verify(fresh); !ok {
		t.Fatal("current session did not verify")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	mgr := newTestManager()

	c, rec := testContext(t)
	if err := mgr.Login(c, 42, false); err != nil {
		t.Fatalf("Login: %v", err)
	}
	ck := sessionCookieFrom(t, rec)

	out, outRec := testContext(t)
	out.Request.AddCookie(ck)
	mgr.Logout(out)

	// Cookie cleared on the response.
	cleared := false
	for _, rc := range outRec.Result().Cookies() {
		if rc.Name == helpers.SessionCookie && rc.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout did not clear the cookie")
	}

	// Stored session gone; the old cookie no longer verifies.
	again, _ := testContext(t)
	again.Request.AddCookie(ck)
	if id, ok := mgr.Verify(again); ok {
		t.Fatalf("session survived logout as account %d", id)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	sess := &Session{AccountID: 1, SID: "sid"}
	if err := store.Save(context.Background(), sess, -time.Second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expired session still returned")
	}
}

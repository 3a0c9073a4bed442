package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
	"github.com/adiwidodo/member-portal/pkg/helpers"
	"github.com/adiwidodo/member-portal/pkg/render"
	"github.com/adiwidodo/member-portal/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixedUserRepo struct {
	user *entity.User
}

func (r *fixedUserRepo) Create(context.Context, *entity.User) error { return nil }
func (r *fixedUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		cp := *r.user
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}
func (r *fixedUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *fixedUserRepo) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (r *fixedUserRepo) List(context.Context) ([]entity.User, error)       { return nil, nil }
func (r *fixedUserRepo) Update(context.Context, *entity.User) error        { return nil }
func (r *fixedUserRepo) UpdatePassword(context.Context, int64, string) error { return nil }
func (r *fixedUserRepo) Delete(context.Context, int64) error               { return nil }
func (r *fixedUserRepo) TypesFor(context.Context, int64) ([]entity.UserType, error) {
	return nil, nil
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(render.Templates())
	return r
}

func asUser(u *entity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(render.CtxUserKey, u)
		}
		c.Next()
	}
}

func TestRequireAuthRedirectsWithNext(t *testing.T) {
	r := newEngine()
	r.GET("/account", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Faccount" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestRequireAuthNextKeepsQueryString(t *testing.T) {
	r := newEngine()
	r.GET("/account", RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account?tab=profile", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?next=%2Faccount%3Ftab%3Dprofile" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	r := newEngine()
	u := &entity.User{ID: 1, Username: "alice"}
	r.GET("/account", asUser(u), RequireAuth(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireUserTypeForbidsOrdinaryUser(t *testing.T) {
	r := newEngine()
	u := &entity.User{ID: 1, Username: "alice"}
	r.GET("/users", asUser(u), RequireAuth(), RequireUserType(entity.SuperUserType),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You don't have permission to do that") {
		t.Fatalf("403 page missing message: %q", rec.Body.String())
	}
}

func TestRequireUserTypeAllowsSuperUser(t *testing.T) {
	r := newEngine()
	u := &entity.User{
		ID:        1,
		Username:  "admin",
		UserTypes: []entity.UserType{{ID: 1, Name: entity.SuperUserType}},
	}
	r.GET("/users", asUser(u), RequireAuth(), RequireUserType(entity.SuperUserType),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireUserTypeAnonymousGetsLoginRedirect(t *testing.T) {
	// Guard order matters: the anonymous client is redirected to login by
	// RequireAuth before the type check can render a 403.
	r := newEngine()
	r.GET("/users", RequireAuth(), RequireUserType(entity.SuperUserType),
		func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
}

func TestLoadSessionResolvesUser(t *testing.T) {
	tokens := helpers.NewTokenManager("session-secret", "reset-secret", 30*time.Minute)
	cookies := helpers.NewCookie("", false)
	mgr := session.NewManager(session.NewMemoryStore(), tokens, cookies, time.Hour, 720*time.Hour)
	repo := &fixedUserRepo{user: &entity.User{ID: 42, Username: "alice"}}

	r := newEngine()
	r.Use(LoadSession(mgr, repo))
	r.GET("/login", func(c *gin.Context) {
		if err := mgr.Login(c, 42, false); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/whoami", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	loginRec := httptest.NewRecorder()
	r.ServeHTTP(loginRec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status = %d", loginRec.Code)
	}

	var sessionCookie *http.Cookie
	for _, ck := range loginRec.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "alice" {
		t.Fatalf("whoami = %q, want alice", rec.Body.String())
	}

	// Without the cookie the request stays anonymous.
	anonRec := httptest.NewRecorder()
	r.ServeHTTP(anonRec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if anonRec.Body.String() != "anonymous" {
		t.Fatalf("whoami = %q, want anonymous", anonRec.Body.String())
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adiwidodo/member-portal/internal/application"
	"github.com/adiwidodo/member-portal/internal/interface/middleware"
	"github.com/adiwidodo/member-portal/pkg/render"
	"github.com/adiwidodo/member-portal/pkg/session"
	"github.com/adiwidodo/member-portal/pkg/validation"
)

type AccountHandler struct {
	Svc      *application.AccountService
	Sessions *session.Manager
	Logger   *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, sessions *session.Manager, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Sessions: sessions, Logger: logger}
}

type registerForm struct {
	Username        string `form:"username" binding:"required,max=20"`
	Email           string `form:"email" binding:"required,email,max=120"`
	Password        string `form:"password" binding:"required,pwd"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Remember string `form:"remember"`
}

type accountForm struct {
	Username string `form:"username" binding:"required,max=20"`
	Email    string `form:"email" binding:"required,email,max=120"`
}

type resetRequestForm struct {
	Email string `form:"email" binding:"required,email"`
}

type resetPasswordForm struct {
	Password        string `form:"password" binding:"required,pwd"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// checked interprets an HTML checkbox value.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "y", "yes":
		return true
	}
	return false
}

// redirectIfAuthenticated sends an already-authenticated client hitting
// the login, register, or reset views home instead of re-processing.
func redirectIfAuthenticated(c *gin.Context) bool {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/home")
		c.Abort()
		return true
	}
	return false
}

func (h *AccountHandler) Home(c *gin.Context) {
	render.HTML(c, http.StatusOK, "home.html", gin.H{"Title": "Home"})
}

func (h *AccountHandler) RegisterForm(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	render.HTML(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (h *AccountHandler) Register(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	var f registerForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "register.html", gin.H{
			"Title":  "Register",
			"Form":   gin.H{"username": f.Username, "email": f.Email},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	_, err := h.Svc.Register(c.Request.Context(), f.Username, f.Email, f.Password)
	if err != nil {
		if fe, ok := application.AsFieldErrors(err); ok {
			render.HTML(c, http.StatusOK, "register.html", gin.H{
				"Title":  "Register",
				"Form":   gin.H{"username": f.Username, "email": f.Email},
				"Errors": fe,
			})
			return
		}
		h.Logger.WithError(err).Error("register failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	render.AddFlash(c, "success", "Your account has been created! You are now able to log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AccountHandler) LoginForm(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	render.HTML(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Next": c.Query("next")})
}

func (h *AccountHandler) Login(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	var f loginForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "login.html", gin.H{
			"Title":  "Login",
			"Next":   c.Query("next"),
			"Form":   gin.H{"email": f.Email},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		// One generic message for unknown email and wrong password alike.
		render.AddFlash(c, "danger", "Login Unsuccessful. Please check email and password")
		render.HTML(c, http.StatusOK, "login.html", gin.H{
			"Title": "Login",
			"Next":  c.Query("next"),
			"Form":  gin.H{"email": f.Email},
		})
		return
	}

	if err := h.Sessions.Login(c, u.ID, checked(f.Remember)); err != nil {
		h.Logger.WithError(err).Error("session start failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	next := c.Query("next")
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

func (h *AccountHandler) Logout(c *gin.Context) {
	h.Sessions.Logout(c)
	c.Redirect(http.StatusFound, "/home")
}

func (h *AccountHandler) AccountForm(c *gin.Context) {
	u := middleware.CurrentUser(c)
	render.HTML(c, http.StatusOK, "account.html", gin.H{
		"Title": "Account",
		"Form":  gin.H{"username": u.Username, "email": u.Email},
	})
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var f accountForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "account.html", gin.H{
			"Title":  "Account",
			"Form":   gin.H{"username": f.Username, "email": f.Email},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	if _, err := h.Svc.UpdateAccount(c.Request.Context(), u.ID, f.Username, f.Email); err != nil {
		if fe, ok := application.AsFieldErrors(err); ok {
			render.HTML(c, http.StatusOK, "account.html", gin.H{
				"Title":  "Account",
				"Form":   gin.H{"username": f.Username, "email": f.Email},
				"Errors": fe,
			})
			return
		}
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("account update failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	render.AddFlash(c, "success", "Your account has been updated!")
	c.Redirect(http.StatusFound, "/account")
}

func (h *AccountHandler) ResetRequestForm(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	render.HTML(c, http.StatusOK, "reset_request.html", gin.H{"Title": "Reset Password"})
}

func (h *AccountHandler) ResetRequest(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	var f resetRequestForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "reset_request.html", gin.H{
			"Title":  "Reset Password",
			"Form":   gin.H{"email": f.Email},
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	if _, err := h.Svc.RequestPasswordReset(c.Request.Context(), f.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			render.HTML(c, http.StatusOK, "reset_request.html", gin.H{
				"Title":  "Reset Password",
				"Form":   gin.H{"email": f.Email},
				"Errors": gin.H{"email": application.MsgNoSuchEmail},
			})
			return
		}
		h.Logger.WithError(err).Error("reset request failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	render.AddFlash(c, "info", "An email has been sent with instructions to reset your password")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AccountHandler) ResetTokenForm(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	token := c.Param("token")
	if _, err := h.Svc.VerifyResetToken(c.Request.Context(), token); err != nil {
		render.AddFlash(c, "warning", "That is an invalid or expired token.")
		c.Redirect(http.StatusFound, "/reset_password")
		return
	}
	render.HTML(c, http.StatusOK, "reset_token.html", gin.H{"Title": "Reset Password", "Token": token})
}

func (h *AccountHandler) ResetToken(c *gin.Context) {
	if redirectIfAuthenticated(c) {
		return
	}
	token := c.Param("token")
	if _, err := h.Svc.VerifyResetToken(c.Request.Context(), token); err != nil {
		render.AddFlash(c, "warning", "That is an invalid or expired token.")
		c.Redirect(http.StatusFound, "/reset_password")
		return
	}

	var f resetPasswordForm
	if err := c.ShouldBind(&f); err != nil {
		render.HTML(c, http.StatusOK, "reset_token.html", gin.H{
			"Title":  "Reset Password",
			"Token":  token,
			"Errors": validation.ToFieldErrors(err),
		})
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), token, f.Password); err != nil {
		render.AddFlash(c, "warning", "That is an invalid or expired token.")
		c.Redirect(http.StatusFound, "/reset_password")
		return
	}

	render.AddFlash(c, "success", "Your password has been updated! You are now able to log in.")
	c.Redirect(http.StatusFound, "/login")
}

// DeleteUser removes an account from the admin listing.
func (h *AccountHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		render.HTML(c, http.StatusNotFound, "404.html", nil)
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			render.HTML(c, http.StatusNotFound, "404.html", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", id).Error("delete user failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}

	render.AddFlash(c, "success", "The user has been deleted!")
	c.Redirect(http.StatusFound, "/users")
}

// Users renders the admin-only listing of all accounts.
func (h *AccountHandler) Users(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		render.HTML(c, http.StatusInternalServerError, "500.html", nil)
		return
	}
	render.HTML(c, http.StatusOK, "users.html", gin.H{"Title": "All Users", "Users": users})
}

package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adiwidodo/member-portal/internal/container"
	handlers "github.com/adiwidodo/member-portal/internal/interface/http"
	"github.com/adiwidodo/member-portal/internal/interface/middleware"
)

// AccountModule wires the public account pages and the authenticated
// account settings page.
// Public: /, /home, /register, /login, /logout, /reset_password
// Protected: /account

type AccountModule struct {
	Handler *handlers.AccountHandler
}

func NewAccountModule(h *handlers.AccountHandler) *AccountModule {
	return &AccountModule{Handler: h}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Credential-bearing POSTs get a tighter limiter than the rest
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())

	rg.GET("/", m.Handler.Home)
	rg.GET("/home", m.Handler.Home)

	rg.GET("/register", m.Handler.RegisterForm)
	rg.POST("/register", m.Handler.Register)

	rg.GET("/login", m.Handler.LoginForm)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/logout", m.Handler.Logout)

	rg.GET("/reset_password", m.Handler.ResetRequestForm)
	rg.POST("/reset_password", resetLimiter, m.Handler.ResetRequest)
	rg.GET("/reset_password/:token", m.Handler.ResetTokenForm)
	rg.POST("/reset_password/:token", resetLimiter, m.Handler.ResetToken)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.GET("/account", m.Handler.AccountForm)
		auth.POST("/account", m.Handler.UpdateAccount)
	}
}

package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	handlers "github.com/adiwidodo/member-portal/internal/interface/http"
	"github.com/adiwidodo/member-portal/internal/interface/middleware"
)

// UserTypeModule wires the SuperUser-only administration pages: the
// account listing and user type CRUD.

type UserTypeModule struct {
	Handler  *handlers.UserTypeHandler
	Accounts *handlers.AccountHandler
}

func NewUserTypeModule(h *handlers.UserTypeHandler) *UserTypeModule {
	return &UserTypeModule{Handler: h}
}

// WithAccounts attaches the account handler so the module can expose the
// admin user listing alongside the type CRUD.
func (m *UserTypeModule) WithAccounts(h *handlers.AccountHandler) *UserTypeModule {
	m.Accounts = h
	return m
}

func (m *UserTypeModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/")
	admin.Use(middleware.RequireAuth(), middleware.RequireUserType(entity.SuperUserType))
	{
		if m.Accounts != nil {
			admin.GET("/users", m.Accounts.Users)
			admin.POST("/user/:id/delete", m.Accounts.DeleteUser)
		}

		admin.GET("/user_types", m.Handler.List)
		admin.GET("/user_type/new", m.Handler.NewForm)
		admin.POST("/user_type/new", m.Handler.Create)
		admin.GET("/user_type/:id/update", m.Handler.EditForm)
		admin.POST("/user_type/:id/update", m.Handler.Update)
		admin.POST("/user_type/:id/delete", m.Handler.Delete)
	}
}

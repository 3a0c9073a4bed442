package router

import (
	"github.com/adiwidodo/member-portal/internal/application"
	"github.com/adiwidodo/member-portal/internal/container"
	pginfra "github.com/adiwidodo/member-portal/internal/infrastructure/postgres"
	handlers "github.com/adiwidodo/member-portal/internal/interface/http"
	"github.com/adiwidodo/member-portal/internal/router/modules"
)

type AccountModuleDeps struct {
	Service *application.AccountService
	Handler *handlers.AccountHandler
}

type UserTypeModuleDeps struct {
	Service *application.UserTypeService
	Handler *handlers.UserTypeHandler
}

func buildAccountDeps() AccountModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// The publisher is optional; a nil typed pointer must not become a
	// non-nil MailQueue interface.
	var mail application.MailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	service := application.NewAccountService(
		repo,
		container.GetTokens(),
		mail,
		container.GetLogger(),
		container.GetConfig().BaseURL,
	)

	handler := handlers.NewAccountHandler(
		service,
		container.GetSessions(),
		container.GetLogger(),
	)

	return AccountModuleDeps{Service: service, Handler: handler}
}

func buildUserTypeDeps() UserTypeModuleDeps {
	users := pginfra.NewUserRepository(container.GetPGPool())
	types := pginfra.NewUserTypeRepository(container.GetPGPool())

	service := application.NewUserTypeService(types, users, container.GetLogger())
	handler := handlers.NewUserTypeHandler(service, container.GetLogger())

	return UserTypeModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	accountDeps := buildAccountDeps()
	r.Add(modules.NewAccountModule(accountDeps.Handler))

	userTypeDeps := buildUserTypeDeps()
	r.Add(modules.NewUserTypeModule(userTypeDeps.Handler).WithAccounts(accountDeps.Handler))
}

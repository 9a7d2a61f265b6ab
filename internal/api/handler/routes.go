package handler

import (
	"net/http"

	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/api/handler/router"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/internal/usecases/dashboarding"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator, hub *events.Hub, allowedOrigins []string) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/auth/signup",
			Method:  http.MethodPost,
			Handler: SignUp(service),
		},
		{
			Path:    "/v1/auth/verify",
			Method:  http.MethodPost,
			Handler: Verify(service),
		},
		{
			Path:    "/v1/auth/verify/resend",
			Method:  http.MethodPost,
			Handler: ResendVerification(service),
		},
		{
			Path:    "/v1/auth/signin",
			Method:  http.MethodPost,
			Handler: SignIn(service),
		},
		{
			Path:        "/v1/auth/signout",
			Method:      http.MethodPost,
			Handler:     SignOut(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/auth/session",
			Method:      http.MethodGet,
			Handler:     GetSession(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/auth/user",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/auth/events",
			Method:      http.MethodGet,
			Handler:     AuthEvents(hub, allowedOrigins),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}
}

func Settings(service preferences.Preferences) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/settings",
			Method:      http.MethodGet,
			Handler:     GetSettings(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/settings/nav",
			Method:      http.MethodPut,
			Handler:     SaveNav(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
		{
			Path:        "/v1/settings/language",
			Method:      http.MethodPut,
			Handler:     SetLanguage(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}
}

func Dashboard(service dashboarding.Dashboarder) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard",
			Method:      http.MethodGet,
			Handler:     GetDashboard(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}
}

// CronJobs registra uma rota estática de execução por job, já que o httprouter
// não aceita um parâmetro no mesmo nível de /v1/cron/status.
func CronJobs(services CronJobServices) []router.Route {
	routes := []router.Route{
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		},
	}

	for name, job := range services {
		routes = append(routes, router.Route{
			Path:        "/v1/cron/" + name + "/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(name, job),
			Middlewares: []func(http.Handler) http.Handler{middleware.RequireSession()},
		})
	}

	return routes
}

package handler

import (
	"net/http"

	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/api/handler/router"
	"github.com/vfg2006/direct-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/direct-insights-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func AccountTokens(accountRepo repository.AccountRepository, tokenRepo repository.TokenRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/token",
			Method:      http.MethodPost,
			Handler:     SaveAccountToken(accountRepo, tokenRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/accounts/:id/token",
			Method:      http.MethodDelete,
			Handler:     DeleteAccountToken(accountRepo, tokenRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Accounts(accountRepo repository.AccountRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     AccountList(accountRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts",
			Method:      http.MethodPost,
			Handler:     CreateAccount(accountRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/accounts/:id/status",
			Method:      http.MethodPut,
			Handler:     UpdateAccountStatus(accountRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func WeeklyStats(
	accountRepo repository.AccountRepository,
	campaignStatRepo repository.CampaignStatRepository,
	detailStatRepo repository.DetailStatRepository,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/weekly-stats",
			Method:      http.MethodGet,
			Handler:     GetWeeklyCampaignStats(accountRepo, campaignStatRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/weekly-stats/:slice",
			Method:      http.MethodGet,
			Handler:     GetWeeklyDetailStats(accountRepo, detailStatRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Campaigns(service direct.Integrator, accountRepo repository.AccountRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/campaigns",
			Method:      http.MethodGet,
			Handler:     ListCampaigns(service, accountRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/direct-stats-sync",
			Method:      http.MethodPost,
			Handler:     RunDirectStatsSync(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"surveyd/internal"
	"surveyd/internal/controllers"
	"surveyd/internal/providers"
	"surveyd/internal/retention"
	"surveyd/internal/services"
	"surveyd/internal/store"
	"surveyd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewSessionProvider,
		providers.NewRateLimiter,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewStore,
		store.NewSubmissionStore,
		store.NewAuditStore,

		services.NewSurveyService,
		services.NewStatsService,
		services.NewAuthService,
		services.NewPrivacyService,
		services.NewRetentionService,

		retention.NewScheduler,

		controllers.NewApiController,
		controllers.NewAdminController,
		controllers.NewPrivacyController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

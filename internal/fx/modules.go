package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"mixes-tracker/internal/api"
	"mixes-tracker/internal/cache"
	"mixes-tracker/internal/config"
	"mixes-tracker/internal/database"
	"mixes-tracker/internal/logger"
	"mixes-tracker/internal/repository"
	"mixes-tracker/internal/server"
	"mixes-tracker/internal/service"
	"mixes-tracker/internal/sync"
)

func ProvideSyncer(cfg *config.Config, client *api.LogsTFClient, users *repository.UserRepository, logs *repository.LogRepository, logger zerolog.Logger) *sync.Syncer {
	policy := sync.AdmissionPolicy{
		MinRatio:   cfg.MinRatio,
		MinPlayers: cfg.MinPlayers,
		MaxPlayers: cfg.MaxPlayers,
	}
	return sync.NewSyncer(client, users, logs, policy, cfg.SearchLimit, logger)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(cache.New),
	// repos
	fx.Provide(repository.NewUserRepository),
	fx.Provide(repository.NewLogRepository),
	fx.Provide(repository.NewStatsRepository),
	// api client
	fx.Provide(api.NewLogsTFClient),
	// sync pipeline
	fx.Provide(ProvideSyncer),
	// svc
	fx.Provide(service.NewRosterService),
	fx.Provide(service.NewReportService),
	fx.Provide(service.NewSyncService),
	// server
	fx.Provide(server.New),
)

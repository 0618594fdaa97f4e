package fx

import (
	"database/sql"

	"osplits/internal/api"
	"osplits/internal/config"
	"osplits/internal/database"
	"osplits/internal/db"
	"osplits/internal/logger"
	"osplits/internal/repository"
	"osplits/internal/server"
	"osplits/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewRaceRepository),
	// results fetcher
	fx.Provide(api.NewWinSplitsClient),
	// svc
	fx.Provide(service.NewCacheFromConfig),
	fx.Provide(service.NewCacheJanitor),
	fx.Provide(service.NewRaceService),
	// server
	fx.Provide(server.NewRaceServer),
)

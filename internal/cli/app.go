package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/repository"
	"github.com/noah-isme/edt-api/internal/scheduler"
	"github.com/noah-isme/edt-api/internal/service"
	"github.com/noah-isme/edt-api/pkg/cache"
	"github.com/noah-isme/edt-api/pkg/config"
	"github.com/noah-isme/edt-api/pkg/database"
)

// App holds the wired services shared by the HTTP server and the operator commands.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Metrics      *service.MetricsService
	Cache        *service.CacheService
	Auth         *service.AuthService
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
	Timetables   *service.TimetableService
	Attributions *service.AttributionService
	FreeSlots    *service.FreeSlotService
	Exports      *service.ExportService
}

// Bootstrap opens PostgreSQL, optionally Redis, and wires every service.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	app, err := Wire(cfg, logger, db, redisClient)
	if err != nil {
		_ = db.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}
	return app, nil
}

// Wire builds the service graph over already opened connections. A nil Redis client
// disables caching.
func Wire(cfg *config.Config, logger *zap.Logger, db *sqlx.DB, redisClient *redis.Client) (*App, error) {
	strategy, err := scheduler.StrategyByName(cfg.Scheduler.Strategy)
	if err != nil {
		return nil, err
	}

	validate := dto.NewValidator()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logger)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled)

	users := repository.NewUserRepository(db)
	professors := repository.NewProfessorRepository(db)
	rooms := repository.NewRoomRepository(db)
	courses := repository.NewCourseRepository(db)
	programs := repository.NewProgramRepository(db)
	schedules := repository.NewScheduleRepository(db)
	attributions := repository.NewAttributionRepository(db)

	loader := service.NewCatalogLoader(programs, courses, professors, rooms)
	timetables := service.NewTimetableService(loader, schedules, courses, professors, rooms, programs, db, cacheSvc, metrics, validate, logger, service.TimetableConfig{
		Strategy:        strategy,
		GlobalOccupancy: cfg.Scheduler.GlobalOccupancy,
		CacheTTL:        cfg.Cache.TTL,
	})

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Redis:   redisClient,
		Metrics: metrics,
		Cache:   cacheSvc,
		Auth: service.NewAuthService(users, validate, logger, service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		Catalog:      service.NewCatalogService(professors, rooms, courses, programs, cacheSvc, validate, logger),
		Availability: service.NewAvailabilityService(professors, rooms, cacheSvc, validate, logger),
		Timetables:   timetables,
		Attributions: service.NewAttributionService(attributions, professors, rooms, courses, programs, metrics, validate, logger, cfg.Attributions.TTL),
		FreeSlots:    service.NewFreeSlotService(professors, rooms, cacheSvc, validate, logger, cfg.Cache.TTL),
		Exports:      service.NewExportService(timetables, logger, nil, nil),
	}, nil
}

// Close releases the connections opened by Bootstrap.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

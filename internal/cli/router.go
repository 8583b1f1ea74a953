package cli

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edt-api/api/swagger"
	"github.com/noah-isme/edt-api/internal/handler"
	"github.com/noah-isme/edt-api/internal/middleware"
	"github.com/noah-isme/edt-api/pkg/config"
	"github.com/noah-isme/edt-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edt-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edt-api/pkg/middleware/requestid"
)

// NewRouter mounts every HTTP route on a fresh gin engine.
func NewRouter(app *App) *gin.Engine {
	cfg := app.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(app.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Metrics, "/metrics", "/health", "/ready"))

	checks := map[string]handler.Pinger{}
	if app.DB != nil {
		checks["database"] = app.DB
	}
	if app.Redis != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() })
	}
	metricsHandler := handler.NewMetricsHandler(app.Metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(app.Auth)
	catalogHandler := handler.NewCatalogHandler(app.Catalog)
	availabilityHandler := handler.NewAvailabilityHandler(app.Availability)
	scheduleHandler := handler.NewScheduleHandler(app.Timetables, app.Exports)
	attributionHandler := handler.NewAttributionHandler(app.Attributions)
	freeSlotHandler := handler.NewFreeSlotHandler(app.FreeSlots)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(app.Auth))
	secured.GET("/auth/me", authHandler.Me)

	read := secured.Group("")
	read.Use(middleware.RequireRoles(middleware.Readers...))
	write := secured.Group("")
	write.Use(middleware.RequireRoles(middleware.Planners...))
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(app.Logger, action, resource)
	}

	write.POST("/users", audit("create", "user"), authHandler.CreateUser)

	read.GET("/professors", catalogHandler.ListProfessors)
	read.GET("/professors/:id", catalogHandler.GetProfessor)
	read.GET("/professors/:id/availability", availabilityHandler.GetProfessor)
	write.POST("/professors", audit("create", "professor"), catalogHandler.CreateProfessor)
	write.PUT("/professors/:id/availability", audit("update_availability", "professor"), availabilityHandler.SetProfessor)

	read.GET("/rooms", catalogHandler.ListRooms)
	read.GET("/rooms/:id", catalogHandler.GetRoom)
	read.GET("/rooms/:id/availability", availabilityHandler.GetRoom)
	write.POST("/rooms", audit("create", "room"), catalogHandler.CreateRoom)
	write.PUT("/rooms/:id/availability", audit("update_availability", "room"), availabilityHandler.SetRoom)

	read.GET("/courses", catalogHandler.ListCourses)
	read.GET("/courses/:id", catalogHandler.GetCourse)
	write.POST("/courses", audit("create", "course"), catalogHandler.CreateCourse)

	read.GET("/programs", catalogHandler.ListPrograms)
	read.GET("/programs/:id", catalogHandler.GetProgram)
	write.POST("/programs", audit("create", "program"), catalogHandler.CreateProgram)

	read.GET("/schedules", scheduleHandler.List)
	read.GET("/schedules/:id", scheduleHandler.Get)
	read.GET("/schedules/:id/export", scheduleHandler.Export)
	write.POST("/schedules/generate", audit("generate", "schedule"), scheduleHandler.Generate)
	write.POST("/schedules/generate-all", audit("generate_all", "schedule"), scheduleHandler.GenerateAll)
	write.POST("/schedules/:id/sessions", audit("add_session", "schedule"), scheduleHandler.AddSession)
	write.PUT("/schedules/:id/sessions", audit("modify_session", "schedule"), scheduleHandler.ModifySession)
	write.DELETE("/schedules/:id/sessions", audit("delete_session", "schedule"), scheduleHandler.DeleteSession)
	write.POST("/schedules/:id/sessions/move", audit("move_session", "schedule"), scheduleHandler.MoveSession)

	read.GET("/attributions", attributionHandler.List)
	read.GET("/attributions/:id", attributionHandler.Get)
	write.POST("/attributions", audit("create", "attribution"), attributionHandler.Create)
	write.POST("/attributions/sweep", audit("sweep", "attribution"), attributionHandler.Sweep)
	write.DELETE("/attributions/:id", audit("delete", "attribution"), attributionHandler.Delete)

	read.GET("/free-slots", freeSlotHandler.Analyze)

	return r
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-api/api/swagger"
	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable-api/pkg/solverclient"
)

// @title Timetable API
// @version 0.1.0
// @description Timetable projections, credit validation and solver bridge
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(context.Background(), cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	validate := validator.New()
	repo := repository.NewTimetableRepository(db)
	opts := timetable.ProjectionOptions{
		NameBudget:     cfg.Projection.NameBudget,
		TitleBudget:    cfg.Projection.TitleBudget,
		HomeroomBudget: cfg.Projection.HomeroomBudget,
	}

	tenantSvc := service.NewTenantService(service.TenantConfig{Secret: cfg.JWT.Secret, DefaultID: cfg.Tenant.DefaultID})
	timetableSvc := service.NewTimetableService(repo, validate, logr, metrics, opts)
	creditsSvc := service.NewCreditsService(repo, validate, logr, metrics)
	exportSvc := service.NewExportService(timetableSvc, logr,
		export.NewCSVExporter(cfg.Export.CSVWithBOM),
		export.NewPDFExporter(cfg.Export.PDFFontPath),
	)
	solverSvc := service.NewSolverService(repo, creditsSvc,
		solverclient.New(solverclient.Config{BaseURL: cfg.Solver.BaseURL, Timeout: cfg.Solver.Timeout}, nil),
		validate, logr, metrics, service.SolverConfig{Enabled: cfg.Solver.Enabled},
	)

	timetableHandler := handler.NewTimetableHandler(timetableSvc, exportSvc)
	creditsHandler := handler.NewCreditsHandler(creditsSvc)
	solverHandler := handler.NewSolverHandler(solverSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Tenant(tenantSvc))
	{
		timetables := api.Group("/timetables")
		timetables.POST("/calendar", timetableHandler.ResolveCalendar)
		timetables.GET("/calendar", timetableHandler.StoredCalendar)
		timetables.POST("/projections/homerooms", timetableHandler.ProjectHomeroomsInline)
		timetables.POST("/projections/instructors", timetableHandler.ProjectInstructorsInline)
		timetables.GET("/results/:resultId/homerooms", timetableHandler.ProjectHomeroomsResult)
		timetables.GET("/results/:resultId/instructors", timetableHandler.ProjectInstructorsResult)
		timetables.GET("/results/:resultId/export", timetableHandler.Export)

		curriculum := api.Group("/curriculum")
		curriculum.POST("/credits/validate", creditsHandler.ValidateInline)
		curriculum.GET("/credits", creditsHandler.ValidateStored)

		solver := api.Group("/solver")
		solver.POST("/requests/preview", solverHandler.PreviewInline)
		solver.GET("/requests/preview", solverHandler.PreviewStored)
		solver.POST("/solve", solverHandler.Solve)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "solver_enabled", cfg.Solver.Enabled)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

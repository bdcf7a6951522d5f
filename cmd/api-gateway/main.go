package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/pawsched/pawsched-api/api/swagger"
	"github.com/pawsched/pawsched-api/internal/handler"
	"github.com/pawsched/pawsched-api/internal/middleware"
	"github.com/pawsched/pawsched-api/internal/repository"
	"github.com/pawsched/pawsched-api/internal/service"
	"github.com/pawsched/pawsched-api/pkg/cache"
	"github.com/pawsched/pawsched-api/pkg/config"
	"github.com/pawsched/pawsched-api/pkg/database"
	"github.com/pawsched/pawsched-api/pkg/logger"
	corsmiddleware "github.com/pawsched/pawsched-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pawsched/pawsched-api/pkg/middleware/requestid"
)

// @title PawSched API
// @version 1.0.0
// @description Pet service appointments and the grooming, boarding and training schedules derived from them
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database, cfg.Dependencies.Timeout)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Dependencies.Timeout)
	if err != nil {
		logr.Fatal("connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()
	timeout := cfg.Dependencies.Timeout

	appointmentRepo := repository.NewAppointmentRepository(db)
	petRepo := repository.NewPetRepository(db)
	offeringRepo := repository.NewServiceOfferingRepository(db)
	groomingRepo := repository.NewGroomingScheduleRepository(db)
	boardingRepo := repository.NewBoardingScheduleRepository(db)
	trainingRepo := repository.NewTrainingScheduleRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(redisClient)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	viewCache := service.NewCacheService(cacheRepo, metrics, cfg.ScheduleView.CacheTTL, logr, cfg.ScheduleView.CacheEnabled)

	catalogSvc := service.NewPackageCatalogService(offeringRepo, viewCache, validate, logr, timeout)
	appointmentSvc := service.NewAppointmentService(service.AppointmentServiceParams{
		Repo:      appointmentRepo,
		Pets:      petRepo,
		Services:  offeringRepo,
		Loyalty:   loyaltyRepo,
		Cache:     viewCache,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config: service.AppointmentServiceConfig{
			Timeout:        timeout,
			LoyaltyEnabled: cfg.Loyalty.Enabled,
			PointValue:     cfg.Loyalty.PointValue,
		},
	})

	scheduleParams := service.ScheduleServiceParams{
		Appointments: appointmentRepo,
		Pets:         petRepo,
		Services:     offeringRepo,
		Cache:        viewCache,
		Metrics:      metrics,
		Validator:    validate,
		Logger:       logr,
		Timeout:      timeout,
	}
	groomingSvc := service.NewGroomingScheduleService(groomingRepo, scheduleParams)
	boardingSvc := service.NewBoardingScheduleService(boardingRepo, scheduleParams)
	trainingSvc := service.NewTrainingScheduleService(trainingRepo, scheduleParams)
	exportSvc := service.NewTrainingExportService(trainingSvc, logr)

	viewSvc := service.NewScheduleViewService(service.ScheduleViewServiceParams{
		Grooming:     groomingRepo,
		Boarding:     boardingRepo,
		Training:     trainingRepo,
		Appointments: appointmentRepo,
		Pets:         petRepo,
		Services:     offeringRepo,
		Cache:        viewCache,
		CacheTTL:     cfg.ScheduleView.CacheTTL,
		Logger:       logr,
		Timeout:      timeout,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS))

	metricsHandler := handler.NewMetricsHandler(metrics, timeout,
		handler.ReadyCheck{Name: "postgres", Check: db.PingContext},
		handler.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, middleware.NewTokenVerifier(cfg.JWT), handler.Handlers{
		Services:     handler.NewServiceOfferingHandler(catalogSvc),
		Appointments: handler.NewAppointmentHandler(appointmentSvc),
		Grooming:     handler.NewGroomingScheduleHandler(groomingSvc, viewSvc),
		Boarding:     handler.NewBoardingScheduleHandler(boardingSvc, viewSvc),
		Training:     handler.NewTrainingScheduleHandler(trainingSvc, viewSvc, exportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown", zap.Error(err))
	}
	logr.Info("server stopped")
}

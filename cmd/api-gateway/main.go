package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/facultydesk/leave-api/api/swagger"
	"github.com/facultydesk/leave-api/internal/handler"
	internalmiddleware "github.com/facultydesk/leave-api/internal/middleware"
	"github.com/facultydesk/leave-api/internal/models"
	"github.com/facultydesk/leave-api/internal/notify"
	"github.com/facultydesk/leave-api/internal/repository"
	"github.com/facultydesk/leave-api/internal/service"
	"github.com/facultydesk/leave-api/pkg/config"
	"github.com/facultydesk/leave-api/pkg/database"
	"github.com/facultydesk/leave-api/pkg/logger"
	corsmiddleware "github.com/facultydesk/leave-api/pkg/middleware/cors"
	reqidmiddleware "github.com/facultydesk/leave-api/pkg/middleware/requestid"
	"github.com/facultydesk/leave-api/pkg/storage"
)

// @title Faculty Leave API
// @version 1.0.0
// @description Leave request and workload reassignment workflow for faculty departments
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	workloadRepo := repository.NewWorkloadRepository(db)

	sender := notify.LogSender(logr)
	if !cfg.Notifications.Enabled {
		sender = notify.SenderFunc(func(context.Context, notify.Event) error { return nil })
	}
	recorded := notify.SenderFunc(func(ctx context.Context, event notify.Event) error {
		if entity, outcome, ok := strings.Cut(string(event.Kind), "."); ok {
			metricsSvc.ObserveTransition(entity, outcome)
		}
		return sender.Send(ctx, event)
	})
	notifier := notify.NewNotifier(recorded, notify.Config{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
	}, logr)
	notifier.Start(context.Background())
	defer notifier.Stop()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	leaveSvc := service.NewLeaveService(leaveRepo, notifier, logr, service.LeaveServiceConfig{
		MaxReasonLength:     cfg.Leave.MaxReasonLength,
		MaxCommentLength:    cfg.Leave.MaxCommentLength,
		AllowBackdatedStart: cfg.Leave.AllowBackdatedStart,
	})
	workloadSvc := service.NewWorkloadService(workloadRepo, leaveRepo, userRepo, notifier, logr)
	dashboardSvc := service.NewDashboardService(leaveRepo, workloadRepo, userRepo, logr, service.DashboardServiceConfig{
		AnnualQuotaDays: cfg.Leave.AnnualQuotaDays,
	})
	reportSvc := service.NewReportService(leaveSvc, nil, logr)
	if cfg.Reports.ArchiveDir != "" {
		archive, err := storage.NewLocalStorage(cfg.Reports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare report archive", "error", err)
		}
		if deleted, err := archive.CleanupOlderThan(30 * 24 * time.Hour); err != nil {
			logr.Sugar().Warnw("report archive cleanup failed", "error", err)
		} else if len(deleted) > 0 {
			logr.Sugar().Infow("pruned archived reports", "count", len(deleted))
		}
		reportSvc = service.NewReportService(leaveSvc, archive, logr)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	userHandler := handler.NewUserHandler(userRepo)
	reportHandler := handler.NewReportHandler(reportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	leaves := secured.Group("/leaves")
	leaves.POST("", internalmiddleware.RequireRoles(models.RoleFaculty), leaveHandler.Create)
	leaves.GET("", leaveHandler.List)
	leaves.GET("/:id", leaveHandler.Get)
	leaves.PATCH("/:id/approve", internalmiddleware.RequireRoles(models.RoleHOD), leaveHandler.Approve)
	leaves.PATCH("/:id/reject", internalmiddleware.RequireRoles(models.RoleHOD), leaveHandler.Reject)
	leaves.DELETE("/:id", internalmiddleware.RequireRoles(models.RoleFaculty), leaveHandler.Cancel)

	workloads := secured.Group("/workloads")
	workloads.POST("", workloadHandler.Create)
	workloads.GET("", workloadHandler.List)
	workloads.GET("/:id", workloadHandler.Get)
	workloads.PATCH("/:id/respond", workloadHandler.Respond)

	secured.GET("/dashboard", dashboardHandler.Stats)
	secured.GET("/users/faculty", userHandler.ListFaculty)

	if cfg.Reports.Enabled {
		secured.GET("/reports/leaves", internalmiddleware.RequireRoles(models.RoleHOD), reportHandler.LeaveReport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

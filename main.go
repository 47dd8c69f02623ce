package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gilby125/hotel-availability/api"
	"github.com/gilby125/hotel-availability/config"
	"github.com/gilby125/hotel-availability/engine"
	"github.com/gilby125/hotel-availability/pkg/buildinfo"
	"github.com/gilby125/hotel-availability/pkg/health"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gilby125/hotel-availability/worker"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})
	log := logger.Default().WithField("version", buildinfo.Version)
	log.Info("Configuration loaded", "environment", cfg.Environment, "session_backend", cfg.SessionConfig.Backend)

	services, err := engine.Build(context.Background(), cfg, log)
	if err != nil {
		log.Fatal(err, "Failed to initialize hotel engine")
	}
	defer services.Close()

	checker := health.NewHealthChecker(buildinfo.Version)
	checker.AddCriticalChecker(&health.SessionChecker{
		Store:   services.Sessions,
		Backend: cfg.SessionConfig.Backend,
		Name:    "sessions",
	})
	if services.Redis != nil {
		checker.AddCriticalChecker(&health.RedisChecker{Client: services.Redis, Name: "redis"})
	}

	// Redis expires sessions itself; the in-process store needs purging.
	if services.Memory != nil {
		scheduler := worker.NewScheduler(nil, log)
		if err := scheduler.AddJob(worker.PurgeJobName, cfg.SessionConfig.PurgeSchedule, worker.PurgeJob(services.Memory, log)); err != nil {
			log.Fatal(err, "Failed to schedule session purge")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.RegisterRoutes(router, services.Engine, checker, log)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTPBindAddr, cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
		return
	}

	log.Info("Server exited properly")
}

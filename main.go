package main

import (
	"context"
	"database/sql"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/kuyumcu/backend/src/config"
	"github.com/username/kuyumcu/backend/src/database"
	"github.com/username/kuyumcu/backend/src/handlers"
	"github.com/username/kuyumcu/backend/src/logger"
	"github.com/username/kuyumcu/backend/src/processors"
	"github.com/username/kuyumcu/backend/src/services"
	"github.com/username/kuyumcu/backend/src/store"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Kuyumcu backend server starting...")

	loc, err := config.Cfg.Location()
	if err != nil {
		logger.L.Error("REPORT_TIMEZONE configuration invalid.", "error", err)
		os.Exit(1)
	}

	apiProxy, err := handlers.NewProxyHandler("api", config.Cfg.APITarget, "/api", config.Cfg.ProxyTimeout)
	if err != nil {
		logger.L.Error("API_TARGET configuration invalid.", "error", err)
		os.Exit(1)
	}
	marketProxy, err := handlers.NewProxyHandler("market", config.Cfg.MarketTarget, "/market-api", config.Cfg.ProxyTimeout)
	if err != nil {
		logger.L.Error("MARKET_TARGET configuration invalid.", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing run history database...", "path", config.Cfg.RunsDatabasePath)
	var runsDB *sql.DB
	if db, err := database.InitDB(config.Cfg.RunsDatabasePath); err != nil {
		logger.L.Error("Run history unavailable, continuing without it", "error", err)
	} else if err := database.RunMigrations(db); err != nil {
		logger.L.Error("Run history migrations failed, continuing without it", "error", err)
		db.Close()
	} else {
		runsDB = db
		defer runsDB.Close()
	}

	reportCache := cache.New(config.Cfg.ReportCacheTTL, services.CacheCleanupInterval)

	reportStore := store.New(config.Cfg.StorePath)
	reportProcessor := processors.NewReportProcessor(loc)
	reportService := services.NewReportService(reportStore, reportProcessor, runsDB, reportCache)

	scheduler, err := services.NewDailyScheduler(reportService, loc)
	if err != nil {
		logger.L.Error("Failed to create report scheduler", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		DistDir: config.Cfg.DistDir,
		API:     apiProxy,
		Market:  marketProxy,
		Reports: handlers.NewReportHandler(reportService),
		Limiter: rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst),
	})

	serverAddr := "0.0.0.0:" + config.Cfg.Port
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		// Proxied bodies stream for as long as the upstream sends them.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info("Production server listening", "address", "http://"+serverAddr)
		logger.L.Info("Serving bundle", "distDir", config.Cfg.DistDir, "present", handlers.BundleExists(config.Cfg.DistDir))
		logger.L.Info("Proxy targets", "apiTarget", config.Cfg.APITarget, "marketTarget", config.Cfg.MarketTarget)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	scheduler.Start()

	<-ctx.Done()
	logger.L.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("Server shutdown failed", "error", err)
	}
	logger.L.Info("Server stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rogerio-castellano/steel-quoter/internal/config"
	"github.com/rogerio-castellano/steel-quoter/internal/db"
	api "github.com/rogerio-castellano/steel-quoter/internal/http"
	"github.com/rogerio-castellano/steel-quoter/internal/http/handlers"
	rl "github.com/rogerio-castellano/steel-quoter/internal/http/rate_limiter"
	"github.com/rogerio-castellano/steel-quoter/internal/jobs"
	"github.com/rogerio-castellano/steel-quoter/internal/logging"
	"github.com/rogerio-castellano/steel-quoter/internal/redissvc"
	"github.com/rogerio-castellano/steel-quoter/internal/repo"
	"github.com/rogerio-castellano/steel-quoter/internal/service"
)

// @title Steel Quoter API
// @version 1.0
// @description REST API for quoting structural steel: customers, materials, quotes with priced BOMs and sales orders.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Open(ctx, db.Options{
		Driver: cfg.Database.Driver,
		URL:    cfg.Database.URL,
		Path:   cfg.Database.Path,
	})
	if err != nil {
		log.WithError(err).Fatal("could not connect to database")
	}
	defer database.Close()
	log.WithField("driver", cfg.Database.Driver).Info("database ready")

	var materials repo.MaterialRepository = repo.NewSQLMaterialRepository(database)
	if cfg.Redis.Addr != "" {
		cache, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, material cache disabled")
		} else {
			defer cache.Close()
			materials = repo.NewCachedMaterialRepository(materials, cache)
			log.WithField("addr", cfg.Redis.Addr).Info("material cache enabled")
		}
	}

	customers := repo.NewSQLCustomerRepository(database)
	svc := service.New(service.Repos{
		Customers:   customers,
		Materials:   materials,
		Quotes:      repo.NewSQLQuoteRepository(database),
		BOM:         repo.NewSQLBOMRepository(database),
		Events:      repo.NewSQLQuoteEventRepository(database),
		SalesOrders: repo.NewSQLSalesOrderRepository(database),
		APIKeys:     repo.NewSQLAPIKeyRepository(database),
	}, log, service.WithDefaultValidDays(cfg.Quotes.DefaultValidDays))

	handlers.SetCustomerRepo(customers)
	handlers.SetMaterialRepo(materials)
	handlers.SetAttachmentRepo(repo.NewSQLAttachmentRepository(database))
	handlers.SetService(svc)
	handlers.SetLogger(log)
	handlers.SetHealthCheck(database.PingContext)

	api.SetRequestLogger(log)
	api.SetRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	api.SetTrustProxy(cfg.Server.TrustProxy)
	api.SetAllowedOrigins(cfg.CORS.AllowedOrigins)
	go rl.StartVisitorCleanupLoop(ctx, 5*time.Minute)

	scheduler := jobs.NewScheduler(svc, log)
	if err := scheduler.ScheduleExpiry(cfg.Jobs.ExpirySchedule); err != nil {
		log.WithError(err).Fatal("could not schedule quote expiry")
	}
	if _, err := scheduler.RunExpiry(ctx); err != nil {
		log.WithError(err).Warn("initial quote expiry failed")
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	scheduler.Stop(shutdownCtx)
	log.Info("server exited")
}

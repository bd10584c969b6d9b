package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/godilite/jsi-server/api/v1"
	"github.com/godilite/jsi-server/internal/config"
	handler "github.com/godilite/jsi-server/internal/grpc"
	"github.com/godilite/jsi-server/internal/repository"
	"github.com/godilite/jsi-server/internal/service"
	"github.com/godilite/jsi-server/pkg/cache"
	dbbuilder "github.com/godilite/jsi-server/pkg/database"
	grpcsrv "github.com/godilite/jsi-server/pkg/grpc/server"
	"github.com/godilite/jsi-server/pkg/metrics"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger        *zap.Logger
	dbPool        *sql.DB
	cache         *cache.Cache
	grpcServer    *grpcsrv.Server
	metricsServer *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithInit(repository.Migrate),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	a := &App{logger: logger, dbPool: dbPool}

	metricsManager := metrics.NewManager()
	svcOpts := []service.Option{
		service.WithObserver(metricsManager),
		service.WithBaselineWindowDays(cfg.BaselineWindowDays),
		service.WithAnomalyLookbackDays(cfg.AnomalyLookbackDays),
	}

	// A nil Cacher turns off read-through caching in the handlers.
	var cacher handler.Cacher
	if cfg.RedisAddr != "" {
		cacheClient, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
		)
		if err != nil {
			a.closeStores()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

		a.cache = cacheClient
		cacher = cacheClient
		svcOpts = append(svcOpts, service.WithAlertPublisher(newAlertPublisher(cacheClient, cfg.AlertChannel, logger)))
	} else {
		logger.Warn("redis disabled: responses are not cached and alerts are not published")
	}

	insightsRepo := repository.NewInsightsRepository(dbPool)

	insightsService := service.NewInsightsService(insightsRepo, logger, svcOpts...)

	grpcHandlers := handler.NewGRPCHandlers(insightsService, cacher, logger, cfg.CacheTTL(),
		handler.WithRequestTimeout(cfg.RequestTimeout()))

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithMetrics(metricsManager),
	)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(v1.ServiceName, func(s *grpc.Server) {
		v1.RegisterInsightsServer(s, grpcHandlers)
	})
	a.grpcServer = grpcServer

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsManager.Handler())
		a.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics endpoint listening", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Warn("gRPC shutdown did not complete gracefully", zap.Error(err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}
	a.closeStores()

	if ctx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}

func (a *App) closeStores() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
}

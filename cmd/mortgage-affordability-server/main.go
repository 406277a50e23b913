package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/mortgage-affordability/internal/cache"
	"github.com/iwvelando/mortgage-affordability/internal/logging"
	"github.com/iwvelando/mortgage-affordability/internal/server"
	"github.com/iwvelando/mortgage-affordability/internal/tracing"
	"github.com/iwvelando/mortgage-affordability/pkg/constants"
	"go.uber.org/zap"
)

var version = "dev"

// newCache picks the analysis cache backend from the server configuration.
// The returned close function is never nil.
func newCache(ctx context.Context, logger *zap.Logger, cfg *server.Config) (cache.Cache, func() error, error) {
	noClose := func() error { return nil }

	if cfg.Cache.Disabled {
		logger.Info("analysis cache disabled", zap.String("op", "main.newCache"))
		return cache.Nop{}, noClose, nil
	}

	if cfg.Cache.Redis.Address == "" {
		logger.Info("using in-memory analysis cache",
			zap.String("op", "main.newCache"),
			zap.Duration("ttl", cfg.CacheTTL()),
			zap.Int("maxEntries", cfg.Cache.MaxEntries),
		)
		return cache.NewMemory(cfg.CacheTTL(), cfg.Cache.MaxEntries), noClose, nil
	}

	redisCache := cache.NewRedis(cfg.Cache.Redis, cfg.CacheTTL())
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		_ = redisCache.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Redis.Address, err)
	}

	logger.Info("using redis analysis cache",
		zap.String("op", "main.newCache"),
		zap.String("address", cfg.Cache.Redis.Address),
		zap.Duration("ttl", cfg.CacheTTL()),
	)
	return redisCache, redisCache.Close, nil
}

func main() {
	configPath := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override (e.g. :8080)")
	maxUploadSize := flag.String("max-upload-size", "", "maximum upload size override (e.g. 256K, 1M)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configPath, err)
		os.Exit(1)
	}

	if *address != "" {
		cfg.Address = *address
	}
	if *maxUploadSize != "" {
		size, err := server.ParseSize(*maxUploadSize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max upload size\", \"error\": \"%v\"}\n", err)
			os.Exit(1)
		}
		cfg.SetUploadSizeBytes(size)
	}

	logger, err := logging.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	cfg.Tracing.ServiceVersion = version
	shutdownTracing, err := tracing.Init(ctx, logger, cfg.Tracing)
	if err != nil {
		logger.Fatal("failed to initialize tracing",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	analysisCache, closeCache, err := newCache(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to initialize analysis cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, cfg.UploadSizeBytes(), version, analysisCache),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", zap.String("op", "main"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if err := closeCache(); err != nil {
		logger.Warn("failed to close analysis cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	logger.Info("server stopped", zap.String("op", "main"))
}

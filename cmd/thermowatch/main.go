package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/thermowatch/internal/alerts"
	"codeberg.org/mutker/thermowatch/internal/anomaly"
	"codeberg.org/mutker/thermowatch/internal/cache"
	"codeberg.org/mutker/thermowatch/internal/config"
	"codeberg.org/mutker/thermowatch/internal/history"
	"codeberg.org/mutker/thermowatch/internal/httpapi"
	"codeberg.org/mutker/thermowatch/internal/logger"
)

const (
	shutdownTimeout   = 30 * time.Second
	cacheConnectTries = 5
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Service failed")
	}
}

func run(cfg *config.Config) error {
	predictor, err := anomaly.NewService(anomaly.Config{
		ReferenceTemp:     cfg.ReferenceTemp,
		WarningThreshold:  cfg.WarningThreshold,
		CriticalThreshold: cfg.CriticalThreshold,
		MinValidTemp:      cfg.MinValidTemp,
		MaxValidTemp:      cfg.MaxValidTemp,
		MaxSensors:        cfg.MaxSensors,
	})
	if err != nil {
		return err
	}
	logger.Info().
		Float64("reference_temp", cfg.ReferenceTemp).
		Float64("warning_threshold", cfg.WarningThreshold).
		Float64("critical_threshold", cfg.CriticalThreshold).
		Msg("Predictor initialized")

	recorder, err := history.NewRecorder(history.Config{
		DBPath:       cfg.HistoryDB,
		BatchSize:    cfg.HistoryBatchSize,
		BatchTimeout: cfg.HistoryBatchTimeout,
		Enabled:      cfg.HistoryEnabled,
	}, logger.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close prediction history")
		}
	}()

	store := connectCache(cfg)
	if store != nil {
		defer store.Close()
	}

	publisher, err := alerts.New(alerts.Config{
		Brokers: cfg.AlertBrokers,
		Topic:   cfg.AlertTopic,
		Enabled: cfg.AlertsEnabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close alert publisher")
		}
	}()

	handler := httpapi.NewHandler(predictor, recorder, store, publisher)
	server := httpapi.NewServer(cfg.ListenAddr, handler)

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Exiting...")

	return nil
}

// connectCache tries Redis a few times and gives up gracefully: the service
// runs without a cache, only the latest-predictions endpoint degrades.
func connectCache(cfg *config.Config) *cache.Store {
	if !cfg.CacheEnabled {
		logger.Debug().Msg("Cache disabled")
		return nil
	}

	cacheCfg := cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Enabled:  true,
	}

	for i := 0; i < cacheConnectTries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err := cache.New(ctx, cacheCfg)
		cancel()
		if err == nil {
			logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
			return store
		}

		logger.Warn().Err(err).Int("attempt", i+1).Msg("Redis connection failed")
		if i < cacheConnectTries-1 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}

	logger.Warn().Msg("Running without cache")

	return nil
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/config"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/oracle"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/processor"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/market-oracle/internal/registry"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	// Initialize sport registry
	sportRegistry, err := registry.NewDefault()
	if err != nil {
		logger.WithError(err).Fatal("failed to register sports")
	}
	for _, module := range sportRegistry.GetAll() {
		logger.WithFields(logrus.Fields{
			"sport":      module.GetSportKey(),
			"markets":    len(module.Catalog().Markets),
			"identities": len(module.Catalog().Identities),
		}).Info("registered sport")
	}

	engine := oracle.NewEngine(sportRegistry, cfg.Analysis)

	processCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		redisClient *redis.Client
		metrics     handlers.MetricsProvider
		errChan     = make(chan error, 2)
	)

	if cfg.Stream.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.URL,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, pingCancel := context.WithTimeout(processCtx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.WithError(err).WithField("addr", cfg.Redis.URL).Fatal("failed to connect to Redis")
		}
		logger.WithField("addr", cfg.Redis.URL).Info("connected to Redis")

		streamConsumer := consumer.NewStreamConsumer(redisClient, logger, cfg.Stream.ConsumerID, cfg.Stream.ConsumerGroup)
		streamPublisher := publisher.NewStreamPublisher(redisClient, cfg.Stream.AnalysisStream)
		proc := processor.NewProcessor(streamConsumer, streamPublisher, engine, logger, cfg.Stream.Sports, cfg.Stream.SnapshotStream)
		metrics = proc

		go func() {
			errChan <- proc.Start(processCtx)
		}()

		// Metrics reporter
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-processCtx.Done():
					return
				case <-ticker.C:
					m := proc.GetMetrics()
					logger.WithFields(logrus.Fields{
						"processed":      m.Processed,
						"failed":         m.Failed,
						"insufficient":   m.Insufficient,
						"contradictions": m.Contradictions,
					}).Info("metrics")
				}
			}
		}()

		logger.WithFields(logrus.Fields{
			"consumer_id": cfg.Stream.ConsumerID,
			"group":       cfg.Stream.ConsumerGroup,
			"sports":      cfg.Stream.Sports,
		}).Info("stream processing started")
	}

	handler := handlers.NewHandler(engine, sportRegistry, logger, metrics)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handlers.NewRouter(handler, cfg.Server.AllowedOrigins, cfg.Server.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("market oracle listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("shutting down gracefully")
	case err := <-errChan:
		if err != nil {
			logger.WithError(err).Error("service error")
			exitCode = 1
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
		exitCode = 1
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Warn("error closing Redis")
		}
	}

	logger.Info("shutdown complete")
	os.Exit(exitCode)
}

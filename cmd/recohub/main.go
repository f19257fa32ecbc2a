package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/peakform/recohub/internal/artifact"
	"github.com/peakform/recohub/internal/cf"
	"github.com/peakform/recohub/internal/config"
	dbRedis "github.com/peakform/recohub/internal/db/redis"
	logpkg "github.com/peakform/recohub/internal/logger"
	"github.com/peakform/recohub/internal/metrics"
	"github.com/peakform/recohub/internal/sentiment"
	"github.com/peakform/recohub/internal/textindex"
	"github.com/peakform/recohub/internal/vectorindex"
	"github.com/peakform/recohub/internal/version"

	catalogrepo "github.com/peakform/recohub/internal/repository/catalog"
	feedbackrepo "github.com/peakform/recohub/internal/repository/feedback"
	interactionrepo "github.com/peakform/recohub/internal/repository/interaction"
	chiTransport "github.com/peakform/recohub/internal/transport/chi"
	openaiEnc "github.com/peakform/recohub/internal/transport/openai"
	feedbackuc "github.com/peakform/recohub/internal/usecase/feedback"
	healthuc "github.com/peakform/recohub/internal/usecase/health"
	recommenduc "github.com/peakform/recohub/internal/usecase/recommend"
	searchuc "github.com/peakform/recohub/internal/usecase/search"
	sentimentuc "github.com/peakform/recohub/internal/usecase/sentiment"
	similaruc "github.com/peakform/recohub/internal/usecase/similar"
	traininguc "github.com/peakform/recohub/internal/usecase/training"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recohub API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterTrainingMetrics()

	encoder := openaiEnc.NewEncoder(&openaiEnc.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})
	logger.Info("Embedding encoder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Artifact holders — the only exchange point between the offline
	// builders and the query path.
	similarityHolder := artifact.NewHolder[textindex.Index](artifact.NameSimilarity)
	vectorHolder := artifact.NewHolder[vectorindex.Index](artifact.NameVectorIndex)
	cfHolder := artifact.NewHolder[cf.Model](artifact.NameCFModel)
	sentimentHolder := artifact.NewHolder[sentiment.Pipeline](artifact.NameSentiment)

	// Repositories over the Redis read models
	prefix := cfg.Database.KeyPrefix
	catalogRepo := catalogrepo.New(store, prefix)
	interactionRepo := interactionrepo.New(store, prefix)
	feedbackRepo := feedbackrepo.New(store, prefix)

	// Use case services
	searchSvc := searchuc.New(vectorHolder, encoder, catalogRepo, searchuc.Options{
		SemanticK:       cfg.Search.SemanticK,
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}, logger)
	similarSvc := similaruc.New(similarityHolder)
	recommendSvc := recommenduc.New(cfHolder, catalogRepo, interactionRepo, logger)
	sentimentSvc := sentimentuc.New(sentimentHolder, feedbackRepo)
	feedbackSvc := feedbackuc.New(feedbackRepo, catalogRepo)

	trainingSvc := traininguc.New(
		catalogRepo, interactionRepo, feedbackRepo, encoder,
		traininguc.Holders{
			Similarity: similarityHolder,
			Vector:     vectorHolder,
			CF:         cfHolder,
			Sentiment:  sentimentHolder,
		},
		traininguc.Options{
			ArtifactsDir: cfg.Artifacts.Dir,
			CF: cf.Hyperparams{
				Factors:        cfg.Training.CFFactors,
				Epochs:         cfg.Training.CFEpochs,
				LearningRate:   cfg.Training.CFLearningRate,
				Regularization: cfg.Training.CFRegularization,
				Seed:           cf.DefaultHyperparams().Seed,
			},
			EncodeBatchSize: cfg.Embedding.BatchSize,
		},
		logger,
	)
	trainingSvc.LoadAll()

	if cfg.Training.RebuildIntervalMin > 0 {
		trainingSvc.StartAutoRebuild(ctx, time.Duration(cfg.Training.RebuildIntervalMin)*time.Minute)
		logger.Info("Auto rebuild enabled",
			zap.Int("interval_min", cfg.Training.RebuildIntervalMin))
	}

	healthSvc := healthuc.New(store,
		similarityHolder, vectorHolder, cfHolder, sentimentHolder)

	server := chiTransport.NewServer(
		searchSvc, similarSvc, recommendSvc, sentimentSvc,
		feedbackSvc, trainingSvc, healthSvc, interactionRepo, logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

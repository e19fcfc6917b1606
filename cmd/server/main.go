package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"schoolpulse/internal/cache"
	"schoolpulse/internal/config"
	"schoolpulse/internal/repository"
	"schoolpulse/internal/service"
	"schoolpulse/internal/transport/rest"
)

func main() {
	// Local development convenience; real deployments set env directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	aiCfg := config.DefaultAIConfig()

	logger.Info("starting schoolpulse",
		zap.String("port", cfg.HTTPPort),
		zap.String("analysisModel", aiCfg.Models.Analysis),
		zap.String("reportModel", aiCfg.Models.Report),
		zap.Bool("aiEnabled", aiCfg.IsEnabled()),
		zap.Int("expectedRespondents", cfg.ExpectedRespondents))
	if !aiCfg.IsEnabled() {
		logger.Warn("GEMINI_API_KEY not set, reports and analyses will use deterministic fallback content")
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping mongodb", zap.Error(err))
	}
	logger.Info("connected to mongodb")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	// Repositories
	projectRepo := repository.NewProjectRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	reportRepo := repository.NewReportRepo(db)

	// Caches
	sessions := cache.NewSessionCache(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	genCache := cache.NewGenerationCache(rdb)

	// Services
	generator := service.NewGeneratorService(logger)
	surveySvc := service.NewSurveyService(projectRepo, questionRepo, responseRepo, sessions, logger)
	analysisSvc := service.NewAnalysisService(questionRepo, responseRepo, generator, logger)
	reportSvc := service.NewReportService(projectRepo, questionRepo, responseRepo, reportRepo,
		genCache, generator, logger, cfg.ExpectedRespondents)

	router := rest.NewRouter(&rest.Container{
		SurveyService:   surveySvc,
		ReportService:   reportSvc,
		AnalysisService: analysisSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

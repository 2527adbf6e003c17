package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/msshahs/prepseed-backend-sub003/internal/cache"
	"github.com/msshahs/prepseed-backend-sub003/internal/config"
	"github.com/msshahs/prepseed-backend-sub003/internal/logger"
	"github.com/msshahs/prepseed-backend-sub003/internal/queue"
	"github.com/msshahs/prepseed-backend-sub003/internal/repository"
	"github.com/msshahs/prepseed-backend-sub003/internal/scheduler"
	"github.com/msshahs/prepseed-backend-sub003/internal/service"
	"github.com/msshahs/prepseed-backend-sub003/internal/transport/rest"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer lg.Sync()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		lg.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		lg.Fatal("failed to ping MongoDB", "error", err)
	}
	lg.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		lg.Fatal("failed to ping Redis", "error", err)
	}
	lg.Info("connected to Redis")

	// Repositories
	gradeRepo := repository.NewGradeRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	assessmentRepo := repository.NewAssessmentRepo(db)
	aggregateRepo := repository.NewAggregateRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// Caches
	hostname, _ := os.Hostname()
	lease := cache.NewSendLease(rdb, hostname, cfg.DigestLeaseTTL)
	categoryCache := cache.NewCategoryCache(rdb, cfg.CategoryTTL)

	// Per-user update queue and services
	updates := queue.New(cfg.QueueSpacing, lg)
	gradingSvc := service.NewGradingService(gradeRepo, submissionRepo, assessmentRepo,
		aggregateRepo, statsRepo, categoryCache, updates, lg)
	statisticsSvc := service.NewStatisticsService(statsRepo, cfg.StatsSweepLimit, lg)
	digestSvc := service.NewDigestService(gradeRepo, lease, service.LogSender{Log: lg}, cfg.DigestBucket, lg)

	// Scheduler
	sched, err := scheduler.New(scheduler.Cadences{
		StatsSweep: cfg.StatsSweepSpec,
		Grading:    cfg.GradingSpec,
		Digest:     cfg.DigestSpec,
	}, gradingSvc, statisticsSvc, digestSvc, lg)
	if err != nil {
		lg.Fatal("failed to build scheduler", "error", err)
	}
	sched.Start()

	// HTTP surface
	router := rest.NewRouter(&rest.Container{
		GradingService: gradingSvc,
		CategoryCache:  categoryCache,
		Log:            lg,
	})
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		lg.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("listen and serve", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	<-sched.Stop().Done()
	if err := updates.Shutdown(shutdownCtx); err != nil {
		lg.Warn("update queue drain interrupted", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Fatal("server forced to shutdown", "error", err)
	}
	lg.Info("server exited")
}

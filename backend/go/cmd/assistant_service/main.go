package main

import (
	"Relopilot_1.0/backend/go/internal/config"
	"Relopilot_1.0/backend/go/internal/database/kafka"
	"Relopilot_1.0/backend/go/internal/database/mysql"
	"Relopilot_1.0/backend/go/internal/database/neo4j"
	"Relopilot_1.0/backend/go/internal/database/redis"
	"Relopilot_1.0/backend/go/internal/models"
	"Relopilot_1.0/backend/go/internal/profile/api"
	"Relopilot_1.0/backend/go/internal/profile/consumer"
	"Relopilot_1.0/backend/go/internal/profile/extractor"
	"Relopilot_1.0/backend/go/internal/profile/notify"
	"Relopilot_1.0/backend/go/internal/profile/service"
	"Relopilot_1.0/backend/go/internal/profile/store"
	"Relopilot_1.0/backend/go/pkg/logger"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("assistant_service", "", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database clients
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer mysql.Close()

	if err := db.AutoMigrate(&models.Fact{}, &models.PendingConfirmation{}); err != nil {
		appLogger.Fatal(err.Error())
	}

	neo4jClient, err := neo4j.GetClient(ctx, &cfg.Databases.Neo4j)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer neo4jClient.Close(ctx)

	// Redis 缓存为可选项，未配置地址时直接走 MySQL。
	var redisClient *goredis.Client
	if cfg.Databases.Redis.Address != "" {
		redisClient, err = redis.GetClient(&cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer redis.Close()
	}

	// Initialize stores
	factStore := store.NewMySQLFactStore(db, redisClient, time.Duration(cfg.Databases.Redis.CacheTTL)*time.Second)
	confirmationStore := store.NewMySQLConfirmationStore(db)
	graphStore := store.NewNeo4jGraphStore(neo4jClient)

	// Initialize extractor
	factExtractor, err := extractor.NewGeminiExtractor(ctx, cfg.Extractor.Gemini.Model, cfg.Extractor.Gemini.APIKey)
	if err != nil {
		appLogger.Fatal(err.Error())
	}

	// Initialize services
	hub := notify.NewHub()
	confirmationService := service.NewConfirmationService(factStore, confirmationStore, graphStore, hub, appLogger, cfg.Extractor.MinConfidence)
	turnService := service.NewTurnService(factExtractor, factStore, confirmationService, appLogger, time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second)

	// Kafka 摄取为可选项，未配置 broker 时仅保留 HTTP 入口。
	if len(cfg.Databases.Kafka.Brokers) > 0 {
		kafkaClient, err := kafka.GetClient(&cfg.Databases.Kafka)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer kafkaClient.Close()

		kafkaConsumer := consumer.NewKafkaConsumer(kafkaClient, turnService, appLogger)
		kafkaConsumer.Start(ctx)
	}

	// Initialize HTTP server
	router := gin.Default()
	apiHandler := api.NewAPI(turnService, confirmationService, hub, appLogger)
	api.RegisterRoutes(router, apiHandler)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err.Error())
		}
	}()

	appLogger.Info("Assistant service started")

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(models.ErrorInfo{Message: err.Error()}).Error("server shutdown failed")
	}

	appLogger.Info("Assistant service stopped")
}

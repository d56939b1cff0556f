package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-gateway/config"
	"storefront-gateway/internal/api"
	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/broker"
	"storefront-gateway/internal/chat"
	"storefront-gateway/internal/notify"
	"storefront-gateway/internal/redisclient"
	"storefront-gateway/internal/tracking"
	"storefront-gateway/internal/util"
	"storefront-gateway/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront gateway")

	tp, err := util.InitTracer("storefront-gateway", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	var snapshotCache *redisclient.SnapshotCache
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, running without snapshot cache: %v", err)
	} else {
		defer redisClient.Close()
		snapshotCache = redisclient.NewSnapshotCache(redisClient)
		log.Println("Redis connected")
	}

	var cache tracking.SnapshotCache
	if snapshotCache != nil {
		cache = snapshotCache
	}
	tracker := tracking.NewViewModel(backendClient, cache, cfg.Poll.SnapshotTTL)

	poller := notify.NewPoller(backendClient, cfg.Poll.PendingInterval, cfg.Poll.NotificationInterval)

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOutbound)
	defer producer.Close()
	eventPublisher := broker.NewEventPublisher(producer)

	bridge := chat.NewBridge(eventPublisher, cfg.Chat.RedirectDelay)
	defer bridge.Close()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	poller.Start(workerCtx)

	chatConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicChat, cfg.Kafka.ConsumerGroup)
	chatWorker := worker.NewChatWorker(chatConsumer, bridge)
	go func() {
		if err := chatWorker.Start(workerCtx); err != nil {
			log.Printf("Chat worker error: %v", err)
		}
	}()

	statusConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrders, cfg.Kafka.ConsumerGroup+"-status")
	var invalidator worker.SnapshotInvalidator
	if snapshotCache != nil {
		invalidator = snapshotCache
	}
	statusWorker := worker.NewStatusWorker(statusConsumer, invalidator, poller)
	go func() {
		if err := statusWorker.Start(workerCtx); err != nil {
			log.Printf("Status worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(tracker, poller, bridge, backendClient)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	chatWorker.Stop()
	statusWorker.Stop()
	poller.Stop()

	log.Println("Server exited")
}

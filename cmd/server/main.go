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

	"grocery-api/config"
	"grocery-api/internal/api"
	"grocery-api/internal/broker"
	"grocery-api/internal/mailer"
	"grocery-api/internal/notify"
	"grocery-api/internal/redisclient"
	"grocery-api/internal/service"
	"grocery-api/internal/store"
	"grocery-api/internal/util"
	"grocery-api/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting grocery API")

	tp, err := util.InitTracer("grocery-api", cfg.Observ.JaegerEndpoint)
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

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Business.ProductCacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	mailClient := mailer.NewClient(cfg.Mail.APIKey, cfg.Mail.From)
	emailQueue := notify.NewQueue(mailClient, cfg.Mail.SellerEmail)

	catalog := service.NewCatalogClient(db, redisClient)
	orderService := service.NewOrderService(db, catalog, emailQueue, eventPublisher, service.Pricing{
		MinOrderAmount:        cfg.Business.MinOrderAmount,
		FreeDeliveryThreshold: cfg.Business.FreeDeliveryThreshold,
		DeliveryFee:           cfg.Business.DeliveryFee,
		TaxRate:               cfg.Business.TaxRate,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	retention := worker.NewRetentionWorker(db, cfg.Business.OrderRetention)
	go retention.Start(workerCtx)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(orderService, catalog, cfg.Auth, cfg.Server.Env)
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
	emailQueue.Close()

	log.Println("Server exited")
}

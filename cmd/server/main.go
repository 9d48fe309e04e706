package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"edupay/internal/app"
	"edupay/internal/config"
	"edupay/internal/gateway"
	"edupay/internal/handler"
	internalRedis "edupay/internal/redis"
	"edupay/internal/repository/postgres"
	"edupay/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Initialize the optional Kafka audit producer.
	producer, err := app.NewKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("failed to initialize kafka producer: %v", err)
	}
	if producer != nil {
		defer producer.Close()
		log.Println("Kafka audit producer enabled")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, producer, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, producer sarama.SyncProducer, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Gateway client: disabled (never nil) when credentials are missing, so
	// the rest of the platform keeps serving while payments return 503.
	gatewayClient := gateway.NewClient(cfg.Razorpay)
	if !gatewayClient.Enabled() {
		log.Println("Payment gateway disabled: credentials missing or payments switched off")
	}

	// Initialize Redis stores.
	statusCache := internalRedis.NewStatusCacheStore(redisClient)
	deliveryMarkers := internalRedis.NewDeliveryMarkerStore(redisClient)

	// Initialize repositories.
	recordRepo := postgres.NewPaymentRecordRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Initialize services.
	auditService := service.NewAuditService(producer, cfg.Kafka.AuditTopic)
	orderService := service.NewOrderService(gatewayClient, catalogRepo, auditService, cfg.Razorpay.Currency)
	webhookService := service.NewWebhookService(recordRepo, catalogRepo, userRepo, deliveryMarkers, auditService, cfg.Razorpay.WebhookSecret, cfg.Razorpay.Currency)
	statusService := service.NewStatusService(recordRepo, gatewayClient, statusCache, auditService, cfg.Razorpay.KeySecret)

	// Initialize handlers.
	paymentHandler := handler.NewPaymentHandler(orderService, statusService, gatewayClient)
	webhookHandler := handler.NewWebhookHandler(webhookService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		PaymentHandler: paymentHandler,
		WebhookHandler: webhookHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AlexEnrique/aiqfav/internal/catalog"
	catalogDelivery "github.com/AlexEnrique/aiqfav/internal/catalog/delivery/http"
	"github.com/AlexEnrique/aiqfav/internal/config"
	customerDelivery "github.com/AlexEnrique/aiqfav/internal/customer/delivery/http"
	"github.com/AlexEnrique/aiqfav/internal/customer/domain"
	"github.com/AlexEnrique/aiqfav/internal/customer/repository"
	"github.com/AlexEnrique/aiqfav/internal/customer/usecase/command"
	"github.com/AlexEnrique/aiqfav/kafka"
	"github.com/AlexEnrique/aiqfav/pkg/cache"
	"github.com/AlexEnrique/aiqfav/pkg/database"
	"github.com/AlexEnrique/aiqfav/pkg/logger"
	"github.com/AlexEnrique/aiqfav/pkg/tracing"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.LogLevel, cfg.IsDevelopment())

	// Tracing
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				log.Printf("Failed to shut down tracer: %v", err)
			}
		}()
	}

	// Database
	db, err := database.NewGormConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	gormRepo := repository.NewGormCustomerRepository(db)
	if err := gormRepo.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var repo domain.CustomerRepository = gormRepo
	if cfg.RepositoryDriver == "sql" {
		rawDB, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer rawDB.Close()
		repo = repository.NewPostgresCustomerRepository(rawDB)
	}

	// Cache store: Redis when configured, in-process otherwise
	var store cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		logger.Logger.Warn().Msg("REDIS_ADDR not set, using in-process cache")
		store = cache.NewMemoryStore()
	}

	// Product catalog behind its own read-through cache
	catalogClient := catalog.NewCachedClient(
		catalog.NewFakeStoreClient(cfg.CatalogBaseURL),
		store,
		cfg.CacheTTL,
	)

	// Kafka events are optional
	var events command.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("Failed to create Kafka publisher: %v", err)
		}
		defer publisher.Close()
		events = publisher
	}

	// Handlers
	customerHandler := customerDelivery.NewCustomerHandler(repo, catalogClient, store, cfg.CacheTTL, events)
	productHandler := catalogDelivery.NewProductHandler(catalogClient)

	// Router
	router := mux.NewRouter()
	customerHandler.RegisterRoutes(router)
	customerHandler.RegisterHealthCheck(router, sqlDB)
	productHandler.RegisterRoutes(router)
	customerDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := otelhttp.NewHandler(c.Handler(router), "aiqfav-http")

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		log.Printf("HTTP server starting on port %s", cfg.HTTPPort)
		log.Printf("Prometheus metrics: http://localhost:%s/metrics", cfg.HTTPPort)
		log.Printf("Auth endpoints: /auth/register, /auth/login, /auth/refresh")
		log.Printf("Customer endpoints: /customers, /customers/me, /customers/me/favorites")
		log.Printf("Catalog endpoints: /products, /products/{id}")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

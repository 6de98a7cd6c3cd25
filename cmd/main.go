package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/events"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/handler"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/config"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/middleware"
	"github.com/cloud-wave-best-zizon/storefront-service/pkg/tls"
)

type stores struct {
	products service.ProductStore
	stock    service.StockStore
	users    service.UserStore
	reviews  service.ReviewStore
	orders   service.OrderStore
}

func main() {
	// Config 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Logger 초기화
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialise document store", zap.Error(err))
	}

	// Service 초기화
	resolver := service.NewStockResolver(st.products, st.stock)
	verifier := service.NewPurchaseVerifier(st.orders)
	productService := service.NewProductService(st.products, st.stock, resolver, logger)
	cartService := service.NewCartService(st.users, st.products, resolver, logger)
	addressService := service.NewAddressService(st.users, logger)
	userService := service.NewUserService(st.users, st.products, verifier, logger)
	reviewService := service.NewReviewService(st.reviews, st.products, st.users, verifier, logger)
	orderService := service.NewOrderService(st.orders, st.stock, resolver, logger)

	// Kafka
	var consumer *events.KafkaConsumer
	if cfg.KafkaBrokers != "" {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaReviewTopic, cfg.KafkaStockTopic, logger)
		defer producer.Close()
		reviewService.SetPublisher(producer)

		consumer = events.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaOrderTopic, orderService, logger)
		consumer.SetCompensationProducer(producer)
		consumer.Start(ctx)
	} else {
		logger.Info("KAFKA_BROKERS not set, order events disabled")
	}

	router := handler.NewRouter(handler.Handlers{
		Product: handler.NewProductHandler(productService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		User:    handler.NewUserHandler(userService, cartService, addressService, logger),
	}, middleware.NewJWTValidator(cfg.JWTSecret), newLimiter(cfg, logger), logger)

	tlsConfig, tlsSource, err := tls.Load(ctx, cfg.TLS, logger)
	if err != nil {
		logger.Fatal("Failed to load TLS config", zap.Error(err))
	}
	defer tlsSource.Close()
	if tlsSource != nil {
		go tlsSource.Watch(ctx, 30*time.Second)
	}

	// Server 시작
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.Bool("local_mode", cfg.LocalMode),
			zap.Bool("tls", tlsConfig != nil))
		var err error
		if tlsConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()

	logger.Info("Shutting down server...")
	if consumer != nil {
		consumer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// newStores picks the in-memory store in LOCAL_MODE and DynamoDB otherwise.
func newStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.LocalMode {
		logger.Warn("LOCAL_MODE enabled, using in-memory document store")
		return &stores{
			products: memory.NewProductRepository(),
			stock:    memory.NewStockRepository(),
			users:    memory.NewUserRepository(),
			reviews:  memory.NewReviewRepository(),
			orders:   memory.NewOrderRepository(),
		}, nil
	}

	// DynamoDB 클라이언트 초기화
	client, err := repository.NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		products: repository.NewProductRepository(client, cfg.ProductTableName),
		stock:    repository.NewStockRepository(client, cfg.StockTableName),
		users:    repository.NewUserRepository(client, cfg.UserTableName),
		reviews:  repository.NewReviewRepository(client, cfg.ReviewTableName),
		orders:   repository.NewOrderRepository(client, cfg.OrderTableName),
	}, nil
}

func newLimiter(cfg *config.Config, logger *zap.Logger) middleware.Limiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	if cfg.RedisAddr != "" {
		logger.Info("Using Redis rate limiter", zap.String("addr", cfg.RedisAddr))
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return middleware.NewRedisLimiter(client, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return middleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
}

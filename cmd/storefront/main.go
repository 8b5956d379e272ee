package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/catshop/storefront/internal/cart"
	"github.com/catshop/storefront/internal/catalog"
	"github.com/catshop/storefront/internal/checkout"
	"github.com/catshop/storefront/internal/config"
	h "github.com/catshop/storefront/internal/http"
	"github.com/catshop/storefront/internal/payment"
	"github.com/catshop/storefront/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.WithField("shop", cfg.ShopName).Info("starting storefront")

	// The catalog loads exactly once; a missing or malformed file is
	// fatal, no partial catalog is ever served.
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load product catalog")
	}
	logger.WithField("products", cat.Len()).Info("catalog loaded")

	carts, closeStore, err := newCartStore(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize cart store")
	}
	defer closeStore()
	logger.WithField("backend", cfg.CartBackend).Info("cart store initialized")

	provider := payment.NewBreakerProvider(payment.NewStripeProvider(cfg.StripeSecretKey))

	builder, err := checkout.NewBuilder(carts, cat, provider, checkout.Options{
		BaseURL:         cfg.BaseURL,
		Currency:        cfg.Currency,
		ProviderTimeout: cfg.CheckoutTimeout,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize checkout builder")
	}

	sessions := session.NewManager(carts, cfg.SessionTTL, logger)
	defer sessions.Close()

	router := h.NewRouter(h.RouterConfig{
		ShopName:       cfg.ShopName,
		RequestTimeout: cfg.RequestTimeout,
	}, cat, carts, builder, sessions, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("invalid LOG_LEVEL %q, using %s", level, logLevel)
	}
	logger.SetLevel(logLevel)

	return logger
}

func newCartStore(cfg *config.Config) (cart.Store, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		return cart.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	default:
		return cart.NewMemoryStore(), func() {}, nil
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ShopName string `envconfig:"SHOP_NAME" default:"Cat Shop"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// BaseURL is the deployed shop address the payment provider
	// redirects back to.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	CatalogPath string `envconfig:"CATALOG_PATH" default:"products.json"`
	Currency    string `envconfig:"CURRENCY" default:"usd"`

	// StripeSecretKey must come from the environment; there is no
	// default and no key ever lives in source.
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" required:"true"`

	// CartBackend selects the session cart store: "memory" or "redis".
	CartBackend string `envconfig:"CART_BACKEND" default:"memory"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CheckoutTimeout time.Duration `envconfig:"CHECKOUT_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from the environment, with a .env file as a
// development convenience.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.CartBackend != "memory" && cfg.CartBackend != "redis" {
		return nil, fmt.Errorf("unknown cart backend %q, expected memory or redis", cfg.CartBackend)
	}

	return &cfg, nil
}

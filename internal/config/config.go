package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP_PORT     string `env:"HTTP_PORT"`
	DB_STRING     string `env:"DB_STRING"`
	KAFKA_BROKERS string `env:"KAFKA_BROKERS"`
	KAFKA_TOPIC   string `env:"KAFKA_TOPIC"`
	INVENTORY_URL string `env:"INVENTORY_URL"`
	PRODUCT_URL   string `env:"PRODUCT_URL"`

	Inventory InventoryGuard
}

// InventoryGuard holds the knobs of the resilience policy around the
// inventory call.
type InventoryGuard struct {
	Timeout        time.Duration
	MaxRetries     uint64
	RetryBackoff   time.Duration
	BreakerWindow  time.Duration
	Cooldown       time.Duration
	FailureRatio   float64
	MinRequests    uint32
	HalfOpenProbes uint32
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP_PORT:     getenv("HTTP_PORT", "8080"),
		DB_STRING:     os.Getenv("DB_STRING"),
		KAFKA_BROKERS: getenv("KAFKA_BROKERS", "localhost:9092"),
		KAFKA_TOPIC:   getenv("KAFKA_TOPIC", "order-placed"),
		INVENTORY_URL: getenv("INVENTORY_URL", "http://inventory-service:8082"),
		PRODUCT_URL:   getenv("PRODUCT_URL", "http://product-service:8081"),
		Inventory: InventoryGuard{
			Timeout:        getduration("INVENTORY_TIMEOUT", 3*time.Second),
			MaxRetries:     getuint("INVENTORY_MAX_RETRIES", 2),
			RetryBackoff:   getduration("INVENTORY_RETRY_BACKOFF", 100*time.Millisecond),
			BreakerWindow:  getduration("BREAKER_INTERVAL", 10*time.Second),
			Cooldown:       getduration("BREAKER_COOLDOWN", 5*time.Second),
			FailureRatio:   getfloat("BREAKER_FAILURE_RATIO", 0.5),
			MinRequests:    uint32(getuint("BREAKER_MIN_REQUESTS", 5)),
			HalfOpenProbes: uint32(getuint("BREAKER_HALF_OPEN_MAX", 3)),
		},
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getuint(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv"      // For loading .env files
	"github.com/shopspring/decimal" // Exact monetary arithmetic
)

// Config holds the application configuration
type Config struct {
	AppPort        string          // Application port
	JWTSecret      string          // JWT secret key
	RedisAddr      string          // Redis server address, empty disables caching
	RedisPass      string          // Redis password
	RedisDB        int             // Redis database number
	WorkerCount    int             // Transaction pipeline worker pool size
	QueueCapacity  int             // Transaction submission queue capacity
	CommissionRate decimal.Decimal // Fraction of the sale amount computed as commission
	IsProd         bool            // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        envOr("APP_PORT", "8080"),          // Application port
		JWTSecret:      os.Getenv("JWT_SECRET"),            // JWT secret key
		RedisAddr:      os.Getenv("REDIS_ADDR"),            // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),            // Redis password
		RedisDB:        redisDB,                            // Redis database number
		WorkerCount:    envInt("WORKER_COUNT", 5),          // Worker pool size
		QueueCapacity:  envInt("QUEUE_CAPACITY", 100),      // Queue capacity
		CommissionRate: envRate("COMMISSION_RATE", "0.03"), // Commission rate, 3% default
		IsProd:         os.Getenv("IS_PROD") == "true",     // Is production environment
	}
}

// envOr returns the variable's value, or def when unset
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt returns the variable parsed as a positive int, or def
func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

// envRate returns the variable parsed as a decimal fraction, or def
func envRate(key, def string) decimal.Decimal {
	if v, err := decimal.NewFromString(os.Getenv(key)); err == nil && v.IsPositive() {
		return v
	}
	rate, _ := decimal.NewFromString(def)
	return rate
}

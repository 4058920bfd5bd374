// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the service reads at startup.
type Config struct {
	Addr        string
	MongoURI    string
	MongoDB     string
	DatabaseURL string
	RedisAddr   string
	OtelHost    string
	SessionTTL  time.Duration
	CertFile    string
	KeyFile     string
}

// Load reads configuration. A missing .env file is not an error; the
// environment alone is enough.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getEnv("ADDR", ":8080"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DB", "storefront"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		OtelHost:    os.Getenv("OTEL_HOST"),
		SessionTTL:  getDuration("SESSION_TTL", time.Hour),
		CertFile:    os.Getenv("TLS_CERT"),
		KeyFile:     os.Getenv("TLS_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

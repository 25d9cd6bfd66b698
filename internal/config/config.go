// Package config loads application configuration from environment
// variables. Every value has a development-friendly default so the
// service starts against a local stack with no configuration at all;
// production deployments override via the environment (or a .env file
// loaded by the entry point).
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Strings for
// identifiers and secrets, ints for costs.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	JWTSecret   string // secret used to sign auth tokens
	BcryptCost  int    // bcrypt cost for password hashing
	RabbitURL   string // AMQP broker URL, empty disables messaging
	RedisAddr   string // Redis host:port, empty disables caching
	RedisPass   string // Redis password (optional)
	RedisDB     int    // Redis database number
}

// Load reads configuration from the environment and applies defaults.
func Load() Config {
	cfg := Config{
		Env:        getenv("APP_ENV", "dev"),
		Port:       getenv("PORT", "3000"),
		DBUser:     getenv("DB_USER", "root"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBName:     getenv("DB_NAME", "vidly"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		BcryptCost: getenvInt("BCRYPT_COST", 10),
		RabbitURL:  os.Getenv("RABBITMQ_URL"),
		RedisAddr:  redisAddr(),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:    getenvInt("REDIS_DB", 0),
	}
	if cfg.JWTSecret == "" {
		// Tokens are issued but never enforced, so a missing secret is
		// not fatal; still worth shouting about outside dev.
		log.Println("config: JWT_SECRET not set, using insecure dev secret")
		cfg.JWTSecret = "vidly-dev-secret"
	}
	return cfg
}

// redisAddr assembles the Redis address from REDIS_ADDR or the
// REDIS_HOST/REDIS_PORT pair. Empty means caching is disabled.
func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	host := os.Getenv("REDIS_HOST")
	port := getenv("REDIS_PORT", "6379")
	if host == "" {
		return ""
	}
	return host + ":" + port
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

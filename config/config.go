package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	LogDir        string
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
	SeedData      bool
}

var AppConfig *Config

// Load reads .env (if present) and the process environment into AppConfig
func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:          GetEnv("PORT", "8080"),
		GinMode:       GetEnv("GIN_MODE", "debug"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		LogDir:        GetEnv("LOG_DIR", ""),
		StoreBackend:  GetEnv("STORE_BACKEND", BackendSQLite),
		RedisAddr:     GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("REDIS_DB", 8),
		SQLitePath:    GetEnv("SQLITE_PATH", "./data/roster.db"),
		SeedData:      GetEnvBool("SEED_DATA", false),
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func GetEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// Tour service
	TourConfigPath string
	AssetBaseURL   string
	WebPEnabled    bool
	PreloadWorkers int

	// Cache worker
	CacheDBPath string
	CacheURL    string
	TourURL     string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		TourConfigPath: getEnv("TOUR_CONFIG_PATH", "data/tour-config.json"),
		AssetBaseURL:   getEnv("ASSET_BASE_URL", ""),
		WebPEnabled:    getEnvAsBool("WEBP_ENABLED", true),
		PreloadWorkers: getEnvAsInt("PRELOAD_WORKERS", 2),

		CacheDBPath: getEnv("CACHE_DB_PATH", "data/db/cache.db"),
		CacheURL:    getEnv("CACHE_URL", "http://localhost:3002"),
		TourURL:     getEnv("TOUR_URL", "http://localhost:3001"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

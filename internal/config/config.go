package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Science struct {
		BaseURL  string
		Pipeline string
	}
	Sync    SyncConfig
	Workers struct {
		MissionsEnabled  bool
		MissionsInterval time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Export struct {
		OutputDir string
	}
}

// SyncConfig задает расписание окон обновления: авторитетное ближнее окно
// плюс фоновые чанки по ChunkDays дней.
type SyncConfig struct {
	NearWindowDays  int
	ChunkDays       int
	ChunkCount      int
	RefreshThrottle time.Duration
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "andromeda")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Science API
	cfg.Science.BaseURL = getEnv("SCIENCE_BASE_URL", "https://science.unistellar.com/wp-admin/admin-ajax.php")
	cfg.Science.Pipeline = getEnv("SCIENCE_PIPELINE", "o,e,c,p")

	// Sync: авторитетное окно 2 дня, потом 3 чанка по 3 дня
	cfg.Sync.NearWindowDays = getEnvAsInt("SYNC_NEAR_WINDOW_DAYS", 2)
	cfg.Sync.ChunkDays = getEnvAsInt("SYNC_CHUNK_DAYS", 3)
	cfg.Sync.ChunkCount = getEnvAsInt("SYNC_CHUNK_COUNT", 3)
	cfg.Sync.RefreshThrottle = getEnvAsDuration("SYNC_REFRESH_THROTTLE", 5*time.Minute)

	// Workers
	cfg.Workers.MissionsEnabled = getEnvAsBool("MISSIONS_WORKER_ENABLED", true)
	cfg.Workers.MissionsInterval = getEnvAsDuration("MISSIONS_WORKER_INTERVAL", 3600*time.Second)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	// Export
	cfg.Export.OutputDir = getEnv("EXPORT_OUTPUT_DIR", "./data/export")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	DBMaxConns  int    `env:"DB_MAX_CONNS" envDefault:"10"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass     string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Geocoder Config
	GeocoderBaseURL    string        `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
	GeocoderUserAgent  string        `env:"GEOCODER_USER_AGENT" envDefault:"geofence-resolver/1.0"`
	GeocoderTimeout    time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"5s"`
	GeocoderRatePerSec float64       `env:"GEOCODER_RATE_PER_SEC" envDefault:"1"`
	GeocodeCacheTTL    time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`

	// Geofence Config
	DebounceWindow      time.Duration `env:"DEBOUNCE_WINDOW" envDefault:"400ms"`
	MinRadiusMeters     float64       `env:"MIN_RADIUS_METERS" envDefault:"100"`
	MaxRadiusMeters     float64       `env:"MAX_RADIUS_METERS" envDefault:"5000"`
	DefaultRadiusMeters float64       `env:"DEFAULT_RADIUS_METERS" envDefault:"500"`
	DefaultCenterLat    float64       `env:"DEFAULT_CENTER_LAT" envDefault:"37.7749"`
	DefaultCenterLng    float64       `env:"DEFAULT_CENTER_LNG" envDefault:"-122.4194"`
	SessionIdleTimeout  time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBMaxConns:          getEnvAsInt("DB_MAX_CONNS", 10),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		RedisPoolSize:       getEnvAsInt("REDIS_POOL_SIZE", 10),
		WebhookURL:          os.Getenv("WEBHOOK_URL"),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:      getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:   getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:    getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		GeocoderBaseURL:     getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:   getEnv("GEOCODER_USER_AGENT", "geofence-resolver/1.0"),
		GeocoderTimeout:     getEnvAsDuration("GEOCODER_TIMEOUT", 5*time.Second),
		GeocoderRatePerSec:  getEnvAsFloat("GEOCODER_RATE_PER_SEC", 1),
		GeocodeCacheTTL:     getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
		DebounceWindow:      getEnvAsDuration("DEBOUNCE_WINDOW", 400*time.Millisecond),
		MinRadiusMeters:     getEnvAsFloat("MIN_RADIUS_METERS", 100),
		MaxRadiusMeters:     getEnvAsFloat("MAX_RADIUS_METERS", 5000),
		DefaultRadiusMeters: getEnvAsFloat("DEFAULT_RADIUS_METERS", 500),
		DefaultCenterLat:    getEnvAsFloat("DEFAULT_CENTER_LAT", 37.7749),
		DefaultCenterLng:    getEnvAsFloat("DEFAULT_CENTER_LNG", -122.4194),
		SessionIdleTimeout:  getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.MinRadiusMeters <= 0 || cfg.MinRadiusMeters > cfg.MaxRadiusMeters {
		return nil, fmt.Errorf("invalid radius bounds: MIN_RADIUS_METERS=%g MAX_RADIUS_METERS=%g", cfg.MinRadiusMeters, cfg.MaxRadiusMeters)
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

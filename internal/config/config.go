package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	JWTSecret string
	JWTIssuer string

	PostgresDSN     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxIdle   time.Duration
	DBConnMaxLife   time.Duration
	DBConnectWait   time.Duration
	MigrateOnBoot   bool
	RedisURL        string
	RateLimitPrefix string

	RecommenderBaseURL string
	RecommenderAPIKey  string
	RecommenderTimeout time.Duration

	TelegramBotToken string
	TelegramEndpoint string

	RoleTimeout      time.Duration
	RoleConcurrency  int
	InviteRateLimit  int
	InviteRateWindow time.Duration
	ApplyRateLimit   int
	ApplyRateWindow  time.Duration
}

var defaults = map[string]any{
	"HTTP_PORT":             "8080",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"REQUEST_TIMEOUT":       "10s",
	"JWT_ISSUER":            "",
	"DATABASE_URL":          "",
	"DB_MAX_OPEN_CONNS":     25,
	"DB_MAX_IDLE_CONNS":     10,
	"DB_CONN_MAX_IDLE":      "5m",
	"DB_CONN_MAX_LIFE":      "30m",
	"DB_CONNECT_TIMEOUT":    "30s",
	"MIGRATE_ON_BOOT":       false,
	"REDIS_URL":             "",
	"RATE_LIMIT_PREFIX":     "collabhub:rl",
	"RECOMMENDER_BASE_URL":  "",
	"RECOMMENDER_API_KEY":   "",
	"RECOMMENDER_TIMEOUT":   "15s",
	"TELEGRAM_BOT_TOKEN":    "",
	"TELEGRAM_API_ENDPOINT": "",
	"ROLE_TIMEOUT":          "10s",
	"ROLE_CONCURRENCY":      8,
	"INVITE_RATE_LIMIT":     30,
	"INVITE_RATE_WINDOW":    "1m",
	"APPLY_RATE_LIMIT":      3,
	"APPLY_RATE_WINDOW":     "1m",
}

// Load reads an optional .env file (or the file named by ENV_FILE) and then
// the process environment. Every missing or invalid key is reported.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetDefault("JWT_SECRET", "")
	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	var problems []error
	duration := func(key string) time.Duration {
		raw := strings.TrimSpace(v.GetString(key))
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			problems = append(problems, fmt.Errorf("%s: invalid duration %q", key, raw))
			return 0
		}
		return parsed
	}
	positive := func(key string) int {
		value := v.GetInt(key)
		if value <= 0 {
			problems = append(problems, fmt.Errorf("%s: must be a positive integer", key))
		}
		return value
	}

	cfg := &Config{
		HTTPPort:           strings.TrimSpace(v.GetString("HTTP_PORT")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		RequestTimeout:     duration("REQUEST_TIMEOUT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		PostgresDSN:        strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBMaxOpenConns:     positive("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:     positive("DB_MAX_IDLE_CONNS"),
		DBConnMaxIdle:      duration("DB_CONN_MAX_IDLE"),
		DBConnMaxLife:      duration("DB_CONN_MAX_LIFE"),
		DBConnectWait:      duration("DB_CONNECT_TIMEOUT"),
		MigrateOnBoot:      v.GetBool("MIGRATE_ON_BOOT"),
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		RateLimitPrefix:    v.GetString("RATE_LIMIT_PREFIX"),
		RecommenderBaseURL: strings.TrimSpace(v.GetString("RECOMMENDER_BASE_URL")),
		RecommenderAPIKey:  v.GetString("RECOMMENDER_API_KEY"),
		RecommenderTimeout: duration("RECOMMENDER_TIMEOUT"),
		TelegramBotToken:   strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		TelegramEndpoint:   strings.TrimSpace(v.GetString("TELEGRAM_API_ENDPOINT")),
		RoleTimeout:        duration("ROLE_TIMEOUT"),
		RoleConcurrency:    positive("ROLE_CONCURRENCY"),
		InviteRateLimit:    positive("INVITE_RATE_LIMIT"),
		InviteRateWindow:   duration("INVITE_RATE_WINDOW"),
		ApplyRateLimit:     positive("APPLY_RATE_LIMIT"),
		ApplyRateWindow:    duration("APPLY_RATE_WINDOW"),
	}

	if cfg.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if cfg.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
	}
	return cfg, nil
}

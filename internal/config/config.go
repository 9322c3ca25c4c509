package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "default_secret_CHANGE_ME"

type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string

	DBDriver   string // sqlite | pgx
	DBDSN      string
	DBMaxConns int
	SeedDemo   bool

	JWTSecret     string
	AllowedOrigin string

	CookieSecure   bool
	BuyerCookieTTL time.Duration

	CacheProductTTL    time.Duration
	MaxBasketQuantity  int
	RateLimitPerMinute int
}

func Load() Config {
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		if err := godotenv.Load(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("config file not loaded")
		}
	} else if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBDSN:      getEnv("DB_DSN", "storefront.db"), // sqlite file in project root
		DBMaxConns: getIntEnv("DB_MAX_CONNS", 10),
		SeedDemo:   getBoolEnv("SEED_DEMO", true),

		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		CookieSecure:   getBoolEnv("COOKIE_SECURE", false),
		BuyerCookieTTL: getDurationEnv("BUYER_COOKIE_TTL", 30*24*time.Hour),

		CacheProductTTL:    getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		MaxBasketQuantity:  getIntEnv("MAX_BASKET_QUANTITY", 1000),
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 120),
	}

	cfg.Validate()
	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("db_driver", cfg.DBDriver).
		Str("allowed_origin", cfg.AllowedOrigin).
		Msg("config loaded")
	return cfg
}

// Validate stops the process on settings the server cannot run with.
func (c Config) Validate() {
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		log.Fatal().Str("driver", c.DBDriver).Msg("DB_DRIVER must be sqlite or pgx")
	}
	if c.DBDSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if c.AllowedOrigin == "*" {
		log.Fatal().Msg("ALLOWED_ORIGIN cannot be * because the basket cookie needs credentialed CORS")
	}
	if c.JWTSecret == defaultJWTSecret {
		log.Warn().Msg("using default JWT secret; bearer tokens are not trustworthy")
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Msg("invalid duration, using fallback")
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Warn().Str("key", key).Msg("invalid int, using fallback")
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Warn().Str("key", key).Msg("invalid bool, using fallback")
	}
	return fallback
}

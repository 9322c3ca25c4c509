package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // restores the original value after the test
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.env")
	unsetEnv(t, "PORT", "DB_DRIVER", "DB_DSN", "BUYER_COOKIE_TTL", "MAX_BASKET_QUANTITY", "SEED_DEMO", "COOKIE_SECURE", "ALLOWED_ORIGIN")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.BuyerCookieTTL)
	assert.Equal(t, 1000, cfg.MaxBasketQuantity)
	assert.True(t, cfg.SeedDemo)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.env")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_DSN", "postgres://shop@localhost/shop")
	t.Setenv("BUYER_COOKIE_TTL", "48h")
	t.Setenv("MAX_BASKET_QUANTITY", "20")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SEED_DEMO", "false")

	cfg := Load()
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 48*time.Hour, cfg.BuyerCookieTTL)
	assert.Equal(t, 20, cfg.MaxBasketQuantity)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.SeedDemo)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_INT", "many")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, time.Minute, getDurationEnv("X_DUR", time.Minute))
	assert.Equal(t, 7, getIntEnv("X_INT", 7))
	assert.True(t, getBoolEnv("X_BOOL", true))
	assert.Equal(t, "fallback", getEnv("X_UNSET_KEY", "fallback"))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "localmart")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "localmart", cfg.DBName)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "8080", cfg.AppPort, "APP_PORT should default to 8080")
}

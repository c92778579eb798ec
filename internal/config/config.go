package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// RedisAddr is optional; when empty the service runs with the
	// in-memory result cache.
	RedisAddr     string
	RedisPassword string

	// InternalKey authorizes catalog-sync callbacks and the internal
	// rate-limit tier.
	InternalKey string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		AppPort:       os.Getenv("APP_PORT"),
		AppEnv:        os.Getenv("APP_ENV"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		InternalKey:   os.Getenv("INTERNAL_SECRET_KEY"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	return cfg
}

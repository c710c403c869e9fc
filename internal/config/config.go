package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, populated from environment variables.
type Config struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"photoboard"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"photoboard"`
	DBName     string `env:"DB_NAME" envDefault:"photoboard"`

	RedisHost string `env:"REDIS_HOST" envDefault:""`
	RedisPort string `env:"REDIS_PORT" envDefault:"6379"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	GinMode       string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`

	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:""`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"photoboard"`
	S3AccessKey string `env:"S3_ACCESS_KEY" envDefault:""`
	S3SecretKey string `env:"S3_SECRET_KEY" envDefault:""`
	S3PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"true"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

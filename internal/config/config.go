package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	S3Endpoint     string `envconfig:"S3_ENDPOINT"`
	S3AccessKey    string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket       string `envconfig:"S3_BUCKET" default:"storefront-images"`
	S3Region       string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UsePathStyle bool   `envconfig:"S3_USE_PATH_STYLE" default:"true"`

	// Image CDN that resizes objects by query parameters. When empty and S3
	// is configured, images are served through presigned URLs.
	ImageBaseURL string `envconfig:"IMAGE_BASE_URL"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	AdminToken string `envconfig:"ADMIN_TOKEN"`

	SearchCacheTTL     time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"30s"`
	SearchLogRetention time.Duration `envconfig:"SEARCH_LOG_RETENTION" default:"720h"`
	PruneInterval      time.Duration `envconfig:"PRUNE_INTERVAL" default:"1h"`

	FeaturedLimit int    `envconfig:"FEATURED_LIMIT" default:"4"`
	StorePhone    string `envconfig:"STORE_PHONE" default:"+32475430399"`
	StoreAddress  string `envconfig:"STORE_ADDRESS" default:"Hoveniersstraat 2, 6e verdieping bureau 630"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("STOREFRONT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasAdmin() bool {
	return c.AdminToken != ""
}

func (c *Config) HasImageCDN() bool {
	return c.ImageBaseURL != ""
}

func (c *Config) LogConfig() LogConfig {
	level := c.LogLevel
	if c.Debug {
		level = "debug"
	}
	return LogConfig{Level: level}
}

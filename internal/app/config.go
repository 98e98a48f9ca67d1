package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (STORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string `usage:"PostgreSQL connection URL (STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	RedisAddr     string `default:"localhost:6379" usage:"Redis address for the OTP store" flag:"redis-addr"`
	ImageBaseURL  string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com/images)" flag:"image-base-url"`
	APIKeyPepper  string `usage:"HMAC pepper for admin API key hashing" flag:"api-key-pepper"`
	GatewaySecret string `usage:"Shared secret for payment gateway signature verification" flag:"gateway-secret"`
	OperatorEmail string `default:"orders@shopveda.in" usage:"Recipient of new-paid-order alerts" flag:"operator-email"`

	OTP       OTPConfig
	Notify    NotifyConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// OTPConfig controls the login one-time-password lifecycle.
type OTPConfig struct {
	TTL time.Duration `default:"5m" usage:"How long an issued OTP stays valid"`
}

// NotifyConfig sizes the background notification dispatcher.
type NotifyConfig struct {
	QueueSize int `default:"256" usage:"Notification queue capacity" flag:"notify-queue-size"`
	Workers   int `default:"4" usage:"Notification worker goroutines" flag:"notify-workers"`
}

// UploadConfig configures S3-backed payment-proof storage. When Bucket is
// empty, uploads are disabled and proof submission proceeds without URLs.
type UploadConfig struct {
	Region          string `default:"ap-south-1" usage:"S3 region" flag:"s3-region"`
	Bucket          string `usage:"S3 bucket for payment proofs; empty disables uploads" flag:"s3-bucket"`
	AccessKeyID     string `usage:"S3 access key ID" flag:"s3-access-key-id"`
	SecretAccessKey string `usage:"S3 secret access key" flag:"s3-secret-access-key"`
	KeyPrefix       string `default:"payment-proofs" usage:"S3 object key prefix" flag:"s3-key-prefix"`
	BaseURL         string `default:"" usage:"Public URL prefix for uploaded objects (CDN)" flag:"s3-base-url"`
}

// RateLimitConfig controls the per-client fixed window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STORE",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set STORE_DATABASE_URL or DATABASE_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's STORE_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.RedisAddr == "localhost:6379" {
		if v := os.Getenv("REDIS_URL"); v != "" {
			c.RedisAddr = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}

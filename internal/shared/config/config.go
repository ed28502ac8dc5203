package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	Env             string   `env:"ENV" envDefault:"dev"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string   `env:"LOG_FORMAT" envDefault:"json"`
	ProviderAPIKeys []string `env:"PROVIDER_API_KEYS" envSeparator:","`

	RateLimit RateLimitConfig
	Gateway   GatewayConfig `envPrefix:"AI_GATEWAY_"`

	ImageAttempts int           `env:"IMAGE_ATTEMPTS" envDefault:"3"`
	ImageStore    string        `env:"IMAGE_STORE" envDefault:"inline"`
	LocalStoreDir string        `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL"`
	AWSRegion     string        `env:"AWS_REGION"`
	S3Bucket      string        `env:"S3_BUCKET"`
	S3Prefix      string        `env:"S3_PREFIX" envDefault:"generated/"`
	S3PresignTTL  time.Duration `env:"S3_PRESIGN_TTL" envDefault:"24h"`

	DatabaseURL string `env:"DATABASE_URL"`
}

// RateLimitConfig holds token-bucket settings per route group.
type RateLimitConfig struct {
	DefaultRPS      float64 `env:"RATE_LIMIT_DEFAULT_RPS" envDefault:"5"`
	DefaultBurst    int     `env:"RATE_LIMIT_DEFAULT_BURST" envDefault:"20"`
	GenerationRPS   float64 `env:"RATE_LIMIT_GENERATION_RPS" envDefault:"0.2"`
	GenerationBurst int     `env:"RATE_LIMIT_GENERATION_BURST" envDefault:"3"`
}

// GatewayConfig describes the OpenAI-compatible AI gateway.
type GatewayConfig struct {
	URL        string        `env:"URL" envDefault:"https://ai.gateway.lovable.dev/v1"`
	APIKey     string        `env:"API_KEY"`
	TextModel  string        `env:"TEXT_MODEL" envDefault:"google/gemini-2.5-flash"`
	ImageModel string        `env:"IMAGE_MODEL" envDefault:"google/gemini-2.5-flash-image"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"120s"`

	OAuthTokenURL     string   `env:"OAUTH_TOKEN_URL"`
	OAuthClientID     string   `env:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `env:"OAUTH_CLIENT_SECRET"`
	OAuthScopes       []string `env:"OAUTH_SCOPES" envSeparator:","`
}

// legacyEnv carries variable names used by older deployments.
type legacyEnv struct {
	LovableAPIKey string `env:"LOVABLE_API_KEY"`
}

// Load reads configuration from the environment, after a best-effort load of local env files.
func Load() (Config, error) {
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	var legacy legacyEnv
	if err := env.Parse(&legacy); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.Gateway.APIKey) == "" {
		cfg.Gateway.APIKey = strings.TrimSpace(legacy.LovableAPIKey)
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ImageStore = normalizeStoreType(cfg.ImageStore)
	cfg.CORSAllowOrigin = trimAll(cfg.CORSAllowOrigin)
	cfg.ProviderAPIKeys = trimAll(cfg.ProviderAPIKeys)
	if cfg.ImageAttempts < 0 {
		cfg.ImageAttempts = 0
	}
	return cfg, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "inline"
	}
}

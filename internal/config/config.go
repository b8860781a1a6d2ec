package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime settings. Values come from the environment
// (optionally seeded from a .env file by main) with development defaults.
type Config struct {
	Addr          string `env:"MALL_WEB_ADDR, default=:8080"`
	Env           string `env:"MALL_WEB_ENV, default=dev"`
	APIBaseURL    string `env:"MALL_API_BASE_URL, default=http://127.0.0.1:9000"`
	SigningKey    string `env:"MALL_WEB_SESSION_SIGNING_KEY"`
	MockpaySecret string `env:"MALL_MOCKPAY_SECRET, default=mockpay-dev-secret"`
	TemplatesDir  string `env:"MALL_WEB_TEMPLATES, default=templates"`
	PublicDir     string `env:"MALL_WEB_PUBLIC, default=public"`
	ContentDir    string `env:"MALL_WEB_CONTENT, default=content"`
	LocalesDir    string `env:"MALL_WEB_LOCALES, default=locales"`
	DefaultLocale string `env:"MALL_WEB_LOCALE, default=zh"`
	Dev           bool   `env:"MALL_WEB_DEV"`
}

// Load parses the environment into a Config.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.IsProd() && cfg.SigningKey == "" {
		return Config{}, fmt.Errorf("config: MALL_WEB_SESSION_SIGNING_KEY must be set in prod")
	}
	return cfg, nil
}

// IsProd reports whether the app runs with production hardening (secure
// cookies, no template reparse).
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}

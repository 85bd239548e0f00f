package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// TrailingSlash はURL末尾スラッシュの扱い。
const (
	// TrailingSlashStrip は末尾スラッシュを除去して同じルートとして扱う。
	TrailingSlashStrip = "strip"
	// TrailingSlashRedirect は末尾スラッシュ無しのURLへリダイレクトする。
	TrailingSlashRedirect = "redirect"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend
	BackendBaseURL string        `env:"BACKEND_BASE_URL"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`

	// Server
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	BaseURL    string `env:"BASE_URL"`

	// Token
	TokenCookieName string        `env:"TOKEN_COOKIE_NAME" envDefault:"access_token"`
	TokenMaxAge     time.Duration `env:"TOKEN_MAX_AGE" envDefault:"720h"`
	TokenFile       string        `env:"TOKEN_FILE"`

	// Cookie
	CookieDomain string `env:"COOKIE_DOMAIN"`
	// CookieSecureOverride は未設定ならnil。CookieSecureはBASE_URLのスキームから導出する。
	CookieSecureOverride *bool `env:"COOKIE_SECURE"`
	CookieSecure         bool

	// Rate Limit
	RateLimitGeneral int `env:"RATE_LIMIT_GENERAL" envDefault:"120"`
	RateLimitSubmit  int `env:"RATE_LIMIT_SUBMIT" envDefault:"20"`

	// Routing
	TrailingSlash string `env:"TRAILING_SLASH" envDefault:"strip"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Required fields
	var missing []string
	if cfg.BackendBaseURL == "" {
		missing = append(missing, "BACKEND_BASE_URL")
	}
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Derived fields
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	if cfg.CookieSecureOverride != nil {
		cfg.CookieSecure = *cfg.CookieSecureOverride
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}

	if cfg.TokenMaxAge <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_MAX_AGE %s: must be positive", cfg.TokenMaxAge)
	}

	switch cfg.TrailingSlash {
	case TrailingSlashStrip, TrailingSlashRedirect:
	default:
		return nil, fmt.Errorf("invalid TRAILING_SLASH %q: want %q or %q", cfg.TrailingSlash, TrailingSlashStrip, TrailingSlashRedirect)
	}

	return cfg, nil
}

// LoadCLI はCLIコマンド用の設定を読み込む。
// CLIはHTTPサーバーを起動しないためBASE_URLは不要。
func LoadCLI() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("required environment variables are not set: %v", []string{"BACKEND_BASE_URL"})
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = DefaultTokenFile()
	}
	return cfg, nil
}

// DefaultTokenFile はCLIのトークンファイルの既定パスを返す。
// ホームディレクトリが取得できない場合はカレントディレクトリ配下を使う。
func DefaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".workerhub", "token")
	}
	return filepath.Join(home, ".workerhub", "token")
}

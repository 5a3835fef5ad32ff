package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	Port            string
	ShutdownTimeout time.Duration

	// Environment
	Environment string

	// CORS
	CORSAllowedOrigin string

	// Proxy（trueの場合のみX-Forwarded-For/X-Real-IPを信頼する）
	TrustProxy bool

	// Rate Limit（0以下で無効）
	RateLimitPerMinute int

	// Logging
	LogLevel slog.Level
}

// Load は環境変数からConfigを読み込む。
// 必須の環境変数はなく、未設定や不正な値はデフォルト値にフォールバックする。
func Load() *Config {
	cfg := &Config{}

	cfg.Port = getEnvPort("PORT", "3000")
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	cfg.Environment = getEnvString("APP_ENV", getEnvString("NODE_ENV", "development"))
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", false)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 600)
	cfg.LogLevel = getEnvLevel("LOG_LEVEL", slog.LevelInfo)

	return cfg
}

// Addr はhttp.Serverに渡すリッスンアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvPort は1〜65535の数値のみを受け付ける。
func getEnvPort(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return defaultVal
	}
	return strconv.Itoa(p)
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return defaultVal
	}
	return level
}

// Package config lê a configuração do serviço do ambiente (e de um .env opcional).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"`

	Port                int  `mapstructure:"PORT"`
	TrustXFF            bool `mapstructure:"TRUST_XFF"`
	AddRateLimitHeaders bool `mapstructure:"ADD_RATELIMIT_HEADERS"`

	RateLogSweepEvery  time.Duration `mapstructure:"RATE_LOG_SWEEP_EVERY"`
	ConcurrencyMax     int           `mapstructure:"CONCURRENCY_MAX"`
	ConcurrencyTimeout time.Duration `mapstructure:"CONCURRENCY_TIMEOUT"`

	UpstreamRPS   float64 `mapstructure:"UPSTREAM_RPS"`
	UpstreamBurst int     `mapstructure:"UPSTREAM_BURST"`

	RateStatsEnabled       bool          `mapstructure:"RATE_STATS_ENABLED"`
	RateStatsRedisAddr     string        `mapstructure:"RATE_STATS_REDIS_ADDR"`
	RateStatsRedisPassword string        `mapstructure:"RATE_STATS_REDIS_PASSWORD"`
	RateStatsRedisDB       int           `mapstructure:"RATE_STATS_REDIS_DB"`
	RateStatsPrefix        string        `mapstructure:"RATE_STATS_PREFIX"`
	RateStatsTTL           time.Duration `mapstructure:"RATE_STATS_TTL"`
	RateStatsBucket        string        `mapstructure:"RATE_STATS_BUCKET"`
	RateStatsTrackKeys     bool          `mapstructure:"RATE_STATS_TRACK_KEYS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"GEMINI_API_KEY":  "",
	"GEMINI_MODEL":    "gemini-2.5-flash",
	"GEMINI_BASE_URL": "",

	"PORT":                  3000,
	"TRUST_XFF":             true,
	"ADD_RATELIMIT_HEADERS": false,

	"RATE_LOG_SWEEP_EVERY": 2 * time.Minute,
	"CONCURRENCY_MAX":      0,
	"CONCURRENCY_TIMEOUT":  time.Duration(0),

	"UPSTREAM_RPS":   0.0,
	"UPSTREAM_BURST": 1,

	"RATE_STATS_ENABLED":        false,
	"RATE_STATS_REDIS_ADDR":     "",
	"RATE_STATS_REDIS_PASSWORD": "",
	"RATE_STATS_REDIS_DB":       0,
	"RATE_STATS_PREFIX":         "study:ratelimit",
	"RATE_STATS_TTL":            24 * time.Hour,
	"RATE_STATS_BUCKET":         "minute",
	"RATE_STATS_TRACK_KEYS":     false,

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "text",
}

// Load carrega ./.env (se existir) e depois o ambiente.
// Variáveis já exportadas têm precedência sobre o .env.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile é Load com um caminho de .env explícito; "" pula o arquivo.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("lendo %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	c.GeminiModel = strings.TrimSpace(c.GeminiModel)
	c.RateStatsBucket = strings.ToLower(strings.TrimSpace(c.RateStatsBucket))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

func (c *Config) Validate() error {
	var errs []error

	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.GeminiModel == "" {
		errs = append(errs, errors.New("GEMINI_MODEL must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.RateLogSweepEvery < 0 {
		errs = append(errs, errors.New("RATE_LOG_SWEEP_EVERY must be >= 0"))
	}
	if c.ConcurrencyMax < 0 {
		errs = append(errs, errors.New("CONCURRENCY_MAX must be >= 0"))
	}
	if c.UpstreamRPS < 0 {
		errs = append(errs, errors.New("UPSTREAM_RPS must be >= 0"))
	}
	if c.UpstreamRPS > 0 && c.UpstreamBurst <= 0 {
		errs = append(errs, errors.New("UPSTREAM_BURST must be > 0 when UPSTREAM_RPS is set"))
	}
	if c.RateStatsEnabled && strings.TrimSpace(c.RateStatsRedisAddr) == "" {
		errs = append(errs, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true"))
	}
	switch c.RateStatsBucket {
	case "minute", "none":
	default:
		errs = append(errs, fmt.Errorf("RATE_STATS_BUCKET must be minute or none, got %q", c.RateStatsBucket))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "MENSAPLAN_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL"`
	HTTP     HTTPConfig     `yaml:"http" envPrefix:"HTTP_"`
	Plan     PlanConfig     `yaml:"plan" envPrefix:"PLAN_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	NATS     NATSConfig     `yaml:"nats" envPrefix:"NATS_"`
	Avatar   AvatarConfig   `yaml:"avatar" envPrefix:"AVATAR_"`
	OTel     OTelConfig     `yaml:"otel" envPrefix:"OTEL_"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type PlanConfig struct {
	AssetsDir  string        `yaml:"assets_dir" env:"ASSETS_DIR"`
	Background string        `yaml:"background" env:"BACKGROUND"`
	Filename   string        `yaml:"filename" env:"FILENAME"`
	DefaultTTL time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`
}

type DatabaseConfig struct {
	DSN           string `yaml:"dsn" env:"DSN"`
	MigrationsDir string `yaml:"migrations_dir" env:"MIGRATIONS_DIR"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr" env:"ADDR"`
	Password  string        `yaml:"password" env:"PASSWORD"`
	DB        int           `yaml:"db" env:"DB"`
	KeyPrefix string        `yaml:"key_prefix" env:"KEY_PREFIX"`
	TTL       time.Duration `yaml:"ttl" env:"TTL"`
}

type NATSConfig struct {
	URL     string `yaml:"url" env:"URL"`
	Subject string `yaml:"subject" env:"SUBJECT"`
}

type AvatarConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`
}

type OTelConfig struct {
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		Plan: PlanConfig{
			AssetsDir:  "assets",
			Background: "mensa_plan.png",
			Filename:   "mensa_plan.png",
			DefaultTTL: time.Hour,
		},
		Database: DatabaseConfig{MigrationsDir: "db/migrations"},
		Redis:    RedisConfig{KeyPrefix: "mensaplan:avatar:", TTL: 24 * time.Hour},
		NATS:     NATSConfig{Subject: "mensaplan.positions"},
		Avatar:   AvatarConfig{FetchTimeout: 5 * time.Second},
	}
}

// Load layers Default, the YAML file at path (skipped when path is empty) and
// MENSAPLAN_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePath prefers the -config flag over MENSAPLAN_CONFIG.
func ResolvePath(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG"))
}

func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.HTTP.Addr) == "":
		return fmt.Errorf("%w: http.addr is empty", ErrInvalidConfig)
	case c.Plan.DefaultTTL <= 0:
		return fmt.Errorf("%w: plan.default_ttl must be positive", ErrInvalidConfig)
	case c.Plan.Background == "":
		return fmt.Errorf("%w: plan.background is empty", ErrInvalidConfig)
	case c.Avatar.FetchTimeout <= 0:
		return fmt.Errorf("%w: avatar.fetch_timeout must be positive", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (hlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "trace":
		return hlog.LevelTrace, nil
	case "debug":
		return hlog.LevelDebug, nil
	case "", "info":
		return hlog.LevelInfo, nil
	case "notice":
		return hlog.LevelNotice, nil
	case "warn":
		return hlog.LevelWarn, nil
	case "error":
		return hlog.LevelError, nil
	case "fatal":
		return hlog.LevelFatal, nil
	}
	return 0, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
}

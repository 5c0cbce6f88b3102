// Package config assembles runtime settings from a .env file, an optional
// YAML file, and the process environment. Environment variables win over
// the YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	FacebookBaseURL string        `yaml:"facebook_base_url"`
	FacebookToken   string        `yaml:"facebook_token"`
	GoogleBaseURL   string        `yaml:"google_base_url"`
	GoogleToken     string        `yaml:"google_token"`
	ArtifactDir     string        `yaml:"artifact_dir"`
	Currency        string        `yaml:"currency"`
	Port            string        `yaml:"port"`
	HTTPTimeout     time.Duration `yaml:"-"`
	LogLevel        slog.Level    `yaml:"-"`

	TimeoutSeconds int    `yaml:"http_timeout_seconds"`
	LogLevelName   string `yaml:"log_level"`
}

// Load reads CONFIG_FILE (YAML, optional), then overlays the environment.
// A .env file in the working directory is folded into the environment first,
// without overriding variables already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ArtifactDir:    "data",
		Currency:       "RM",
		Port:           "8080",
		TimeoutSeconds: 15,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
	}

	cfg.FacebookBaseURL = envOr("FACEBOOK_BASE_URL", cfg.FacebookBaseURL)
	cfg.FacebookToken = envOr("FACEBOOK_TOKEN", cfg.FacebookToken)
	cfg.GoogleBaseURL = envOr("GOOGLE_ADS_BASE_URL", cfg.GoogleBaseURL)
	cfg.GoogleToken = envOr("GOOGLE_ADS_TOKEN", cfg.GoogleToken)
	cfg.ArtifactDir = envOr("ARTIFACT_DIR", cfg.ArtifactDir)
	cfg.Currency = envOr("CURRENCY", cfg.Currency)
	cfg.Port = envOr("PORT", cfg.Port)

	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	cfg.LogLevelName = envOr("LOG_LEVEL", cfg.LogLevelName)
	cfg.LogLevel = slog.LevelInfo
	if cfg.LogLevelName == "debug" {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

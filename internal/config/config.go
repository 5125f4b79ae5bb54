// Package config assembles the evaluator's configuration once at
// startup. Components receive an explicit Config; none of them read
// the process environment themselves.
//
// Precedence, lowest to highest: built-in defaults, optional YAML
// config file, environment variables (POEM_EVAL_* plus
// OPENROUTER_API_KEY), then any CLI flag overrides applied by the
// caller.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces the evaluator's environment overrides.
const envPrefix = "POEM_EVAL_"

// Config is the full configuration surface of the batch evaluator.
type Config struct {
	// DBPath points at the dev server's generation log database.
	DBPath string `koanf:"db_path" yaml:"db_path" validate:"required"`

	// ReportPath is where the Markdown report is written. Parent
	// directories are created as needed; the file is overwritten.
	ReportPath string `koanf:"report_path" yaml:"report_path" validate:"required"`

	// APIKey authenticates against OpenRouter. Required; read from
	// OPENROUTER_API_KEY and never from the config file.
	APIKey string `koanf:"api_key" yaml:"-" validate:"required"`

	// BaseURL overrides the OpenRouter endpoint, mainly for tests.
	BaseURL string `koanf:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Model is the fixed evaluator model.
	Model string `koanf:"model" yaml:"model" validate:"required"`

	// Temperature is the sampling temperature for scoring. Kept low so
	// verdicts stay consistent.
	Temperature float64 `koanf:"temperature" yaml:"temperature" validate:"min=0,max=2"`

	// MaxTokens caps the oracle's reply length.
	MaxTokens int `koanf:"max_tokens" yaml:"max_tokens" validate:"min=1"`

	// TimeoutSeconds bounds each oracle call.
	TimeoutSeconds int `koanf:"timeout_seconds" yaml:"timeout_seconds" validate:"min=1"`

	// Concurrency bounds in-flight oracle calls. 1 means strictly
	// sequential.
	Concurrency int `koanf:"concurrency" yaml:"concurrency" validate:"min=1,max=16"`

	// RequestsPerSecond paces oracle calls; 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second" yaml:"requests_per_second" validate:"min=0"`

	// Referer and Title are OpenRouter's attribution headers.
	Referer string `koanf:"referer" yaml:"referer"`
	Title   string `koanf:"title" yaml:"title"`
}

// Default returns the built-in configuration, mirroring the paths and
// model selection the dev setup has always used.
func Default() Config {
	return Config{
		DBPath:            "dev-server/dev-logs.db",
		ReportPath:        "docs/llm_analysis_report.md",
		Model:             "google/gemini-2.5-flash-preview-09-2025",
		Temperature:       0.3,
		MaxTokens:         2048,
		TimeoutSeconds:    30,
		Concurrency:       1,
		RequestsPerSecond: 1,
		Referer:           "http://localhost:3001",
		Title:             "Mansion Poem Log Analyzer",
	}
}

// Load builds the configuration. filePath names an optional YAML
// config file; empty means defaults plus environment only. A .env
// file in the working directory is honored if present.
func Load(filePath string) (Config, error) {
	// Populate the process environment from .env, matching the
	// original tooling's dotenv behavior. A missing file is fine.
	_ = godotenv.Load()

	cfg := Default()

	if filePath != "" {
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", filePath, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// POEM_EVAL_DB_PATH -> db_path
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("apply environment overrides: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration. A missing API key is
// the most common failure and gets its own message.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

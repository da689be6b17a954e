package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type StorageConfig struct {
	// Uploaded files and generated reports live here.
	UploadDir string `env:"UPLOAD_DIR, default=uploads"`

	// OCRFallback runs tesseract on pages without a text layer.
	OCRFallback bool `env:"PDF_OCR_FALLBACK, default=false"`
}

type Config struct {
	App     AppConfig
	DB      DBConfig
	LLM     LLMConfig
	Storage StorageConfig
	Rubric  RubricConfig
}

// Load reads the configuration from the process environment. Callers load
// .env beforehand if they want one.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DB.Driver))
	}

	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be one of anthropic, openai, openrouter, gemini, got %q", c.LLM.Provider))
	}
	if c.LLM.PriceInputPer1K < 0 || c.LLM.PriceOutputPer1K < 0 {
		errs = append(errs, errors.New("LLM token prices must be >= 0"))
	}
	if c.LLM.JSONTruncateChars <= 0 || c.LLM.TextTruncateChars <= 0 {
		errs = append(errs, errors.New("LLM truncation limits must be > 0"))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, errors.New("LLM_MAX_RETRIES must be >= 0"))
	}
	if c.App.BodyLimitMB <= 0 {
		errs = append(errs, errors.New("APP_BODY_LIMIT_MB must be > 0"))
	}
	if c.Storage.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR must not be empty"))
	}

	return errors.Join(errs...)
}

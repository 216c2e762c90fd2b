package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"mspro-labs/coin-filter/internal/apperr"
)

const (
	envPrefix = "COINFILTER"

	DefaultConfigPath = "coinfilter.yaml"
	DefaultSourceURL  = "https://api.coinmarketcap.com/v1/ticker/?limit=0"
	DefaultFormat     = "csv"
)

var validate = validator.New()

// AppConfig holds process settings read from COINFILTER_* environment variables.
type AppConfig struct {
	ConfigPath     string `envconfig:"CONFIG_PATH"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" validate:"omitempty,url"`
}

// ExportConfig holds the data source and output settings (from YAML).
type ExportConfig struct {
	Source Source `yaml:"source"`
	Output Output `yaml:"output"`
}

type Source struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
	Fields  Fields        `yaml:"fields"`
}

// Fields names the JSON keys of a listing entry.
type Fields struct {
	Name   string `yaml:"name" validate:"required"`
	Price  string `yaml:"price" validate:"required"`
	Supply string `yaml:"supply" validate:"required"`
}

type Output struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format" validate:"oneof=csv xlsx sqlite"`
}

// GetAppConfig reads process settings from the environment, applying defaults.
func GetAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		ConfigPath: DefaultConfigPath,
		LogLevel:   "warn",
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return AppConfig{}, apperr.New(apperr.Configuration, "read environment", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return AppConfig{}, apperr.New(apperr.Configuration, "validate environment", err)
	}
	return cfg, nil
}

// DefaultExportConfig returns the settings used when no config file exists.
func DefaultExportConfig() *ExportConfig {
	return &ExportConfig{
		Source: Source{
			URL: DefaultSourceURL,
			Fields: Fields{
				Name:   "name",
				Price:  "price_usd",
				Supply: "available_supply",
			},
		},
		Output: Output{Format: DefaultFormat},
	}
}

// LoadExportConfig overlays the YAML file at path onto the defaults.
// A missing file is only an error when required is set.
func LoadExportConfig(path string, required bool) (*ExportConfig, error) {
	cfg := DefaultExportConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, apperr.New(apperr.Configuration, "read config", fmt.Errorf("failed to read config file at '%s': %w", path, err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperr.New(apperr.Configuration, "read config", fmt.Errorf("failed to parse YAML config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings after all overrides have been applied.
func (c *ExportConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperr.New(apperr.Configuration, "validate config", err)
	}
	return nil
}

// OutputPath returns the configured path, or the default file name for the format.
func (c *ExportConfig) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	switch c.Output.Format {
	case "xlsx":
		return "coins.xlsx"
	case "sqlite":
		return "coins.db"
	default:
		return "coins.csv"
	}
}

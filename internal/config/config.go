package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and the file exists.
const DefaultFile = "salesview.yaml"

// Config holds every setting of the sales explorer.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Export  ExportConfig  `yaml:"export"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig describes the sales REST backend.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	RateLimit float64       `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" validate:"gte=1"`
	Proxy     string        `yaml:"proxy" validate:"omitempty,url"` // overrides HTTP(S)_PROXY when set
	NoProxy   string        `yaml:"no_proxy"`
}

// ExportConfig controls where and how visible rows are written.
type ExportConfig struct {
	Dir          string `yaml:"dir" validate:"required"`
	EscapeFields bool   `yaml:"escape_fields"` // quote fields per RFC 4180 instead of plain joining
}

// StorageConfig locates the local history database. Empty disables history.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls the file logger. The TUI owns stdout, so logs never go there.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:8000/api",
			Timeout:   30 * time.Second,
			RateLimit: 5,
			Burst:     2,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Storage: StorageConfig{
			DBPath: "salesview.db",
		},
		Log: LogConfig{
			File:  "salesview.log",
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path, then
// SALESVIEW_* environment variables. An explicit path must exist; an empty
// path falls back to DefaultFile when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file, defaults apply
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("SALESVIEW_BASE_URL"); ok {
		cfg.API.BaseURL = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SALESVIEW_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v, ok := os.LookupEnv("SALESVIEW_RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SALESVIEW_RATE_LIMIT: %w", err)
		}
		cfg.API.RateLimit = f
	}
	if v, ok := os.LookupEnv("SALESVIEW_PROXY"); ok {
		cfg.API.Proxy = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_NO_PROXY"); ok {
		cfg.API.NoProxy = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_EXPORT_DIR"); ok {
		cfg.Export.Dir = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_ESCAPE_FIELDS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SALESVIEW_ESCAPE_FIELDS: %w", err)
		}
		cfg.Export.EscapeFields = b
	}
	if v, ok := os.LookupEnv("SALESVIEW_DB"); ok {
		cfg.Storage.DBPath = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := os.LookupEnv("SALESVIEW_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	return nil
}

// Validate checks the final configuration after flags were applied.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	domainerrors "github.com/davidleathers/audit-scanner/internal/domain/errors"
)

// EnvPrefix scopes environment overrides, e.g. SCANNER_REPORT_FORMAT
const EnvPrefix = "SCANNER_"

// DefaultPath is where the optional config file is looked up
const DefaultPath = "configs/scanner.yaml"

type Config struct {
	Version     string `koanf:"version" validate:"required"`
	Environment string `koanf:"environment" validate:"required"`
	LogLevel    string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	Report    ReportConfig    `koanf:"report"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ReportConfig struct {
	Format string `koanf:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	// TextfilePath, when set, receives a node-exporter textfile after each run
	TextfilePath string `koanf:"textfile_path"`
}

type TelemetryConfig struct {
	Enabled       bool          `koanf:"enabled"`
	ServiceName   string        `koanf:"service_name" validate:"required"`
	OTLPEndpoint  string        `koanf:"otlp_endpoint" validate:"required_if=Enabled true"`
	SamplingRate  float64       `koanf:"sampling_rate" validate:"gte=0,lte=1"`
	ExportTimeout time.Duration `koanf:"export_timeout" validate:"gt=0"`
}

// Defaults returns the configuration used when no file or environment overrides exist
func Defaults() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		LogLevel:    "warn",
		Report: ReportConfig{
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			ServiceName:   "audit-scanner",
			SamplingRate:  1.0,
			ExportTimeout: 10 * time.Second,
		},
	}
}

// Load layers defaults, the optional YAML file at path, and SCANNER_ environment variables
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, domainerrors.NewConfigurationError("LOAD_DEFAULTS", "loading defaults").WithCause(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, domainerrors.NewConfigurationError("LOAD_FILE",
				fmt.Sprintf("loading config file %s", path)).WithCause(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, domainerrors.NewConfigurationError("LOAD_ENV", "loading environment variables").WithCause(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, domainerrors.NewConfigurationError("UNMARSHAL", "unmarshaling config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey maps SCANNER_REPORT_FORMAT to report.format. Only the first
// underscore after a section name is a separator, so SCANNER_LOG_LEVEL stays log_level.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range []string{"report", "metrics", "telemetry"} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return domainerrors.NewValidationError("INVALID_CONFIG",
				fmt.Sprintf("config field %s fails %q", fe.Namespace(), fe.Tag())).WithCause(err)
		}
		return domainerrors.NewValidationError("INVALID_CONFIG", "config validation failed").WithCause(err)
	}
	return nil
}

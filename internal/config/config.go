package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Reader names accepted by READER.
const (
	ReaderNative    = "native"
	ReaderLibNetCDF = "libnetcdf"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath          string `envconfig:"INPUT_PATH" default:"MADCP_HUD2013021_1840_12556_3600_interpolated.nc" validate:"required"`
	Reader             string `envconfig:"READER" default:"native" validate:"oneof=native libnetcdf"`
	ReaderChunkRecords int    `envconfig:"READER_CHUNK_RECORDS" default:"0" validate:"gte=0"`
	OutputDir          string `envconfig:"OUTPUT_DIR" default:"." validate:"required"`
	ProfilePath        string `envconfig:"MOORING_PROFILE"`

	LogLevel        string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`

	// XLSXExport is the workbook file name, relative to OutputDir. Empty disables export.
	XLSXExport string `envconfig:"XLSX_EXPORT"`

	// Artifact announcements are enabled when KafkaBrokers is set.
	KafkaBrokers       []string      `envconfig:"KAFKA_BROKERS"`
	KafkaArtifactTopic string        `envconfig:"KAFKA_ARTIFACT_TOPIC" default:"adcp-artifacts" validate:"required_with=KafkaBrokers"`
	KafkaTimeout       time.Duration `envconfig:"KAFKA_TIMEOUT" default:"10s" validate:"gt=0"`

	Profile Profile `ignored:"true"`
}

// Load reads configuration from an optional .env file and environment
// variables, applying defaults where unset, then loads the mooring profile.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	cfg.KafkaBrokers = parseBrokers(cfg.KafkaBrokers)

	profile, err := LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints. Errors name the
// environment variable or profile key at fault.
func (c *Config) Validate() error {
	if err := describe(newValidator().Struct(c)); err != nil {
		return err
	}
	if c.XLSXExport == "" {
		return nil
	}
	export := c.ExportPath()
	for _, f := range c.Profile.Figures {
		if export == filepath.Join(c.OutputDir, f.File) {
			return fmt.Errorf("invalid config: XLSX_EXPORT %q would overwrite figure %s", c.XLSXExport, f.File)
		}
	}
	return nil
}

// ExportPath is the workbook path with relative names placed in OutputDir.
func (c *Config) ExportPath() string {
	if filepath.IsAbs(c.XLSXExport) {
		return filepath.Clean(c.XLSXExport)
	}
	return filepath.Join(c.OutputDir, c.XLSXExport)
}

// KafkaEnabled reports whether artifact announcements should be published.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func parseBrokers(in []string) []string {
	var out []string
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// newValidator reports fields by their envconfig or yaml key rather than the
// Go field name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if key := f.Tag.Get("envconfig"); key != "" {
			return key
		}
		if key, _, _ := strings.Cut(f.Tag.Get("yaml"), ","); key != "" && key != "-" {
			return key
		}
		return f.Name
	})
	return v
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s (got %v)", key, fe.Tag(), fe.Value()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

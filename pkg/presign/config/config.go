package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	s3signer "github.com/tendant/presign-service/pkg/presign/storage/s3"
)

// ErrMissingCredentials is returned when the bucket or access keys are empty
var ErrMissingCredentials = errors.New("bucket, ak, sk should not be empty")

// Config is read once at startup and passed by value afterwards
type Config struct {
	Host string `env:"HOST" env-default:"0.0.0.0"`
	Port uint16 `env:"PORT" env-default:"1998"`

	Bucket          string `env:"BUCKET"`
	AccessKeyID     string `env:"AK"`
	SecretAccessKey string `env:"SK"`
	Endpoint        string `env:"S3_ENDPOINT" env-default:"https://s3.bitiful.net"`
	Region          string `env:"S3_REGION" env-default:"cn-east-1"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	ExtensionMode   string `env:"EXTENSION_MODE" env-default:"append"`

	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat      string `env:"LOG_FORMAT" env-default:"text"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads the configuration from the process environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and enumerations
func (c Config) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "BUCKET")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "AK")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "SK")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	switch s3signer.ExtensionMode(c.ExtensionMode) {
	case s3signer.ExtensionAppend, s3signer.ExtensionSigned:
	default:
		return fmt.Errorf("EXTENSION_MODE must be 'append' or 'signed', got %q", c.ExtensionMode)
	}

	if _, err := c.level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}

	return nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// S3 returns the signer configuration
func (c Config) S3() s3signer.Config {
	return s3signer.Config{
		Region:          c.Region,
		Bucket:          c.Bucket,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		Endpoint:        c.Endpoint,
		UsePathStyle:    c.UsePathStyle,
		ExtensionMode:   s3signer.ExtensionMode(c.ExtensionMode),
	}
}

// NewLogger builds a slog logger writing to w in the configured format and level
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

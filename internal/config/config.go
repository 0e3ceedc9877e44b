package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration. The defaults reproduce the simulated
// app exactly; the environment only overrides them.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"production"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8081"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	PollPeriod         time.Duration `envconfig:"POLL_PERIOD" default:"15s"`
	NotificationTTL    time.Duration `envconfig:"NOTIFICATION_TTL" default:"5s"`
	NewSaleProbability float64       `envconfig:"NEW_SALE_PROBABILITY" default:"0.3"`
	FetchDelay         time.Duration `envconfig:"FETCH_DELAY" default:"1s"`
	PollDelay          time.Duration `envconfig:"POLL_DELAY" default:"2s"`
	BatchSize          int           `envconfig:"BATCH_SIZE" default:"50"`

	QRSize int `envconfig:"QR_SIZE" default:"160"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the tunables are usable.
func (c *Config) Validate() error {
	if c.NewSaleProbability < 0 || c.NewSaleProbability > 1 {
		return errors.New("new sale probability must be between 0 and 1")
	}
	if c.PollPeriod <= 0 {
		return errors.New("poll period must be positive")
	}
	if c.NotificationTTL <= 0 {
		return errors.New("notification ttl must be positive")
	}
	if c.FetchDelay < 0 || c.PollDelay < 0 {
		return errors.New("simulated delays must not be negative")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	if c.QRSize <= 0 {
		return errors.New("qr size must be positive")
	}
	return nil
}

// IsDevelopment returns true when the application runs in development.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

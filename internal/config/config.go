package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const namespace = "MASTERY"

// Config holds runtime settings for both the editor and the backend.
type Config struct {
	// ServerURL is the backend the editor persists changes to.
	ServerURL string `envconfig:"SERVER_URL" default:"http://localhost:8080"`

	// ListenAddr is the address `serve` binds to.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// DB overrides the default SQLite path.
	DB string `envconfig:"DB"`

	// RequestTimeout bounds a single mastery update.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFile receives logs while the terminal UI owns stdout.
	LogFile string `envconfig:"LOG_FILE"`

	// AllowedOrigins lists CORS origins accepted by the backend.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then MASTERY_* environment variables.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(namespace, &cfg); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("MASTERY_SERVER_URL %q is not an absolute URL", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("MASTERY_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

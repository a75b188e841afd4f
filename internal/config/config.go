package config

import (
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultEndpointURL is the spreadsheet script the careers page has always posted to.
const DefaultEndpointURL = "https://script.google.com/macros/s/AKfycbwFGTvG3WbHXNG-zT41t4-edNX9Vvlf3rOOfVbrc9-m9AJU6wdLzYg9BheFXzfhmKUKXQ/exec"

type EndpointOptions struct {
	URL     string        `env:"APPLICATION_ENDPOINT_URL" envDefault:"https://script.google.com/macros/s/AKfycbwFGTvG3WbHXNG-zT41t4-edNX9Vvlf3rOOfVbrc9-m9AJU6wdLzYg9BheFXzfhmKUKXQ/exec"`
	Timeout time.Duration `env:"APPLICATION_ENDPOINT_TIMEOUT" envDefault:"15s"`
}

type GmailOptions struct {
	RecruiterEmail  string `env:"RECRUITER_EMAIL"`
	CredentialsFile string `env:"GMAIL_CREDENTIALS_FILE" envDefault:"credential.json"`
	TokenFile       string `env:"GMAIL_TOKEN_FILE" envDefault:"token.json"`
}

// Enabled reports whether accepted applications should be mailed to a recruiter.
func (g GmailOptions) Enabled() bool {
	return g.RecruiterEmail != ""
}

type MetricsOptions struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type Configuration struct {
	Endpoint EndpointOptions
	Gmail    GmailOptions
	Metrics  MetricsOptions

	Port            int           `env:"PORT" envDefault:"8080"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	NotificationTTL time.Duration `env:"NOTIFICATION_TTL" envDefault:"3s"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	MaxUploadSize   int64         `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	// Empty disables the submission ledger.
	DatabaseDSN string `env:"DATABASE_DSN"`
}

// LoadEnv loads the env files that exist and returns how many were read.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads the optional env files, parses the environment and validates the result.
func Load(envFiles ...string) (*Configuration, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}
	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	u, err := url.Parse(c.Endpoint.URL)
	if err != nil {
		return errors.Wrap(err, "invalid APPLICATION_ENDPOINT_URL")
	}
	if !u.IsAbs() || u.Host == "" {
		return errors.Errorf("APPLICATION_ENDPOINT_URL must be absolute, got %q", c.Endpoint.URL)
	}
	if c.Endpoint.Timeout <= 0 {
		return errors.Errorf("APPLICATION_ENDPOINT_TIMEOUT must be positive, got %s", c.Endpoint.Timeout)
	}
	if c.NotificationTTL <= 0 {
		return errors.Errorf("NOTIFICATION_TTL must be positive, got %s", c.NotificationTTL)
	}
	if c.SessionTTL <= 0 {
		return errors.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

func (c *Configuration) Production() bool {
	return c.GinMode == "release"
}

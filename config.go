package authclient

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

const (
	defaultRefreshPath = "/auth/refresh"
	defaultHTTPTimeout = 15 * time.Second
)

// Config holds the client layer options.
type Config struct {
	// BaseURL is the platform API root, e.g. https://api.example.com/v1.
	BaseURL string
	// RefreshPath is the refresh exchange endpoint relative to BaseURL.
	RefreshPath string
	// HTTPTimeout bounds every outbound call.
	HTTPTimeout time.Duration
}

// Validate will run validation rules.
func (c Config) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&c,
			validation.Field(
				&c.BaseURL,
				validation.Required,
				is.URL,
			),
			validation.Field(
				&c.RefreshPath,
				validation.Required,
			),
		)
	}, "invalid client configuration")
}

// RefreshURL is the absolute refresh exchange endpoint.
func (c Config) RefreshURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.RefreshPath
}

// WithDefaults fills unset optional fields.
func (c Config) WithDefaults() Config {
	if c.RefreshPath == "" {
		c.RefreshPath = defaultRefreshPath
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return c
}

// ConfigFromEnv loads configuration from the environment, reading a .env
// file first when one is present.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:     os.Getenv("AUTHCLIENT_BASE_URL"),
		RefreshPath: os.Getenv("AUTHCLIENT_REFRESH_PATH"),
	}

	if raw := os.Getenv("AUTHCLIENT_HTTP_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryBadInput, "invalid AUTHCLIENT_HTTP_TIMEOUT_SECONDS").
				WithTextCode(TextCodeInvalidConfig)
		}
		cfg.HTTPTimeout = time.Duration(seconds) * time.Second
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

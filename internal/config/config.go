package config

import (
	"errors"
	"strings"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	PriceID     string `env:"GENESIS_PACK_PRICE_ID"`

	Database Database `envPrefix:"DATABASE_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Postmark Postmark `envPrefix:"POSTMARK_"`
	Download Download `envPrefix:"DOWNLOAD_"`
}

type Stripe struct {
	BaseApiURL    string `env:"API_BASE_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	// retries on network errors and 5xx, see stripe-go BackendConfig
	MaxNetworkRetries int64 `env:"MAX_NETWORK_RETRIES" envDefault:"2"`
}

type Postmark struct {
	BaseApiURL  string `env:"API_BASE_URL" envDefault:"https://api.postmarkapp.com"`
	ServerToken string `env:"SERVER_TOKEN"`
	FromEmail   string `env:"FROM_EMAIL"`
	FromName    string `env:"FROM_NAME" envDefault:"Harbor Agent"`
}

type Download struct {
	OriginURL     string        `env:"ORIGIN_URL"`
	SigningKey    string        `env:"SIGNING_KEY"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	ArchivePrefix string        `env:"ARCHIVE_PREFIX" envDefault:"harbor-agent-genesis-pack"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite, mysql
	URL    string `env:"URL" envDefault:"harboragent.db"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
	// requests per second per client IP, 0 disables limiting
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"10"`
}

func (h HTTPServer) Address() string {
	return h.Host + ":" + h.Port
}

// SigningKey is the HMAC key for download tokens. Deployments without a
// dedicated key sign with the Stripe secret.
func (c *Config) SigningKey() string {
	if c.Download.SigningKey != "" {
		return c.Download.SigningKey
	}
	return c.Stripe.SecretKey
}

func (c *Config) Validate() error {
	var missing []string
	if c.Stripe.SecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.Download.OriginURL == "" {
		missing = append(missing, "DOWNLOAD_ORIGIN_URL")
	}
	if c.Download.TokenTTL <= 0 {
		return errors.New("DOWNLOAD_TOKEN_TTL must be positive")
	}
	if len(missing) > 0 {
		return errors.New("missing required config: " + strings.Join(missing, ", "))
	}
	return nil
}

package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/notify"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/pkg/httpx"
	"github.com/aussiebroadwan/collab/pkg/jwtx"
	"github.com/aussiebroadwan/collab/pkg/tracex"
	"github.com/caarlos0/env/v11"
)

// Notification modes for COLLAB_NOTIFY_MODE.
const (
	NotifyModeLog  = "log"
	NotifyModeSMTP = "smtp"
)

type Config struct {
	Issuer    string        `env:"COLLAB_ISSUER" envDefault:"collab"`
	Audience  []string      `env:"COLLAB_AUDIENCE" envSeparator:","`
	AccessTTL time.Duration `env:"COLLAB_ACCESS_TTL"`
	KeyFile   string        `env:"COLLAB_KEY_FILE"` // empty keeps an ephemeral signing key

	DatabaseFile string `env:"COLLAB_DATABASE_FILE" envDefault:"collab.db"`
	BlobFile     string `env:"COLLAB_BLOB_FILE" envDefault:"blobs.db"`
	PepperFile   string `env:"COLLAB_PEPPER_FILE" envDefault:"pepper"`

	FrontendURL     string        `env:"COLLAB_FRONTEND_URL" envDefault:"http://localhost:3000"`
	InviteValidity  time.Duration `env:"COLLAB_INVITE_VALIDITY"`
	InviteRetention time.Duration `env:"COLLAB_INVITE_RETENTION"`
	MaxUploadBytes  int64         `env:"COLLAB_MAX_UPLOAD_BYTES"`

	NotifyMode    string            `env:"COLLAB_NOTIFY_MODE" envDefault:"log"`
	NotifyTimeout time.Duration     `env:"COLLAB_NOTIFY_TIMEOUT" envDefault:"10s"`
	SMTP          notify.SMTPConfig `envPrefix:"SMTP_"`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	Tracing   tracex.Config           `envPrefix:"OTEL_EXPORTER_OTLP_"`
	RateLimit httpx.RateLimitProfiles `envPrefix:"RATELIMIT_"`
}

// LoadConfig reads the environment on top of the built-in defaults.
func LoadConfig() (Config, error) {
	cfg := Config{
		AccessTTL:       jwtx.DefaultAccessTokenTTL,
		InviteValidity:  service.DefaultInviteValidity,
		InviteRetention: service.DefaultInviteRetention,
		RateLimit:       httpx.DefaultRateLimits(),
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("config: COLLAB_FRONTEND_URL must be an absolute http(s) URL, got %q", c.FrontendURL)
	}

	switch strings.ToLower(c.NotifyMode) {
	case NotifyModeLog:
	case NotifyModeSMTP:
		if c.SMTP.Host == "" {
			return fmt.Errorf("config: SMTP_HOST is required when COLLAB_NOTIFY_MODE=smtp")
		}
	default:
		return fmt.Errorf("config: unknown COLLAB_NOTIFY_MODE %q", c.NotifyMode)
	}

	if c.InviteValidity <= 0 {
		return fmt.Errorf("config: COLLAB_INVITE_VALIDITY must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	return nil
}

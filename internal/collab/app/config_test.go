package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "collab", cfg.Issuer)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, NotifyModeLog, cfg.NotifyMode)
	require.Equal(t, 7*24*time.Hour, cfg.InviteValidity)
	require.Equal(t, 30*24*time.Hour, cfg.InviteRetention)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 5, cfg.RateLimit.Strict.RequestsPerWindow)
	require.Empty(t, cfg.Tracing.Endpoint)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COLLAB_FRONTEND_URL", "https://collab.example.com/")
	t.Setenv("COLLAB_INVITE_VALIDITY", "48h")
	t.Setenv("COLLAB_AUDIENCE", "web,cli")
	t.Setenv("COLLAB_NOTIFY_MODE", "smtp")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4318")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "https://collab.example.com/", cfg.FrontendURL)
	require.Equal(t, 48*time.Hour, cfg.InviteValidity)
	require.Equal(t, []string{"web", "cli"}, cfg.Audience)
	require.Equal(t, "mail.example.com", cfg.SMTP.Host)
	require.Equal(t, 2525, cfg.SMTP.Port)
	require.Equal(t, 50, cfg.RateLimit.Strict.RequestsPerWindow)
	// Untouched fields of an overridden profile keep their defaults.
	require.Equal(t, time.Minute, cfg.RateLimit.Strict.Window)
	require.Equal(t, "otel:4318", cfg.Tracing.Endpoint)
}

func TestLoadConfigRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"relative frontend": {"COLLAB_FRONTEND_URL": "/app"},
		"unknown notify":    {"COLLAB_NOTIFY_MODE": "pigeon"},
		"smtp without host": {"COLLAB_NOTIFY_MODE": "smtp"},
		"zero validity":     {"COLLAB_INVITE_VALIDITY": "0s"},
		"bad duration":      {"HOUSEKEEPING_INTERVAL": "soon"},
	}

	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

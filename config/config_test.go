package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GO_ENV", "production")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "Asia/Seoul", cfg.Timezone)
		assert.Equal(t, 2, cfg.CoupleMaxMembers)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "noop", cfg.Mail.Provider)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("REQUEST_TIMEOUT", "3s")
		t.Setenv("MAIL_PROVIDER", "ses")
		t.Setenv("APP_TIMEZONE", "UTC")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "ses", cfg.Mail.Provider)
		loc, err := cfg.Location()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("unknown time zone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("too few members", func(t *testing.T) {
		t.Setenv("COUPLE_MAX_MEMBERS", "1")
		_, err := Load()
		require.Error(t, err)
	})
}

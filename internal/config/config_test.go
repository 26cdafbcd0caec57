package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "fxalert", cfg.App.Name)
	assert.Equal(t, 60*time.Second, cfg.App.CycleTimeout)
	assert.Equal(t, "https://openexchangerates.org/api", cfg.Rates.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Rates.RequestTimeout)
	assert.Equal(t, "eu", cfg.Notify.Mailgun.Region)
	assert.Equal(t, 5, cfg.Notify.Gotify.Priority)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadBindsDeploymentEnvNames(t *testing.T) {
	t.Setenv("OER_APP_ID", "app-123")
	t.Setenv("TARGET_CURRENCY", "eur")
	t.Setenv("COMPARISON_CURRENCY", "usd")
	t.Setenv("THRESHOLD_RATE", "0.9")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("MAILGUN_TO", "a@example.com, b@example.com")
	t.Setenv("GOTIFY_URL", "https://push.example.com")
	t.Setenv("TIMEZONE", "Europe/Madrid")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "app-123", cfg.Rates.AppID)
	assert.Equal(t, "eur", cfg.Check.TargetCurrency)
	assert.Equal(t, "usd", cfg.Check.ComparisonCurrency)
	assert.Equal(t, "0.9", cfg.Check.ThresholdRate)
	assert.Equal(t, "mg.example.com", cfg.Notify.Mailgun.Domain)
	assert.Equal(t, "a@example.com, b@example.com", cfg.Notify.Mailgun.To)
	assert.Equal(t, "https://push.example.com", cfg.Notify.Gotify.URL)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone.Name)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fxalert.yaml")
	content := []byte(`
check:
  target_currency: GBP
  comparison_currency: USD
  threshold_rate: "0.75"
rates:
  request_timeout: 3s
notify:
  gotify:
    url: gotify.local
    token: abc
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "GBP", cfg.Check.TargetCurrency)
	assert.Equal(t, "0.75", cfg.Check.ThresholdRate)
	assert.Equal(t, 3*time.Second, cfg.Rates.RequestTimeout)
	assert.Equal(t, "gotify.local", cfg.Notify.Gotify.URL)
	assert.Equal(t, "abc", cfg.Notify.Gotify.Token)
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_CHAT_ID=42\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TELEGRAM_CHAT_ID") })

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.Notify.Telegram.ChatID)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestValidateRejectsUnknownRegion(t *testing.T) {
	t.Setenv("MAILGUN_REGION", "ap")

	_, err := Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify.mailgun.region")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, DefaultTimezone, cfg.Report.Timezone)
	assert.Equal(t, os.TempDir(), cfg.Report.TmpDir)
	assert.Equal(t, ":8080", cfg.Health.Listen)
	assert.Equal(t, DefaultTimezone, cfg.Location().String())
}

func TestNormalizeRunMode(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = "Polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = baseConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := baseConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	assert.Error(t, Normalize(cfg), "missing url")

	cfg.Webhook.URL = "https://bot.example.com/hook"
	assert.Error(t, Normalize(cfg), "missing listen")

	cfg.Webhook.Listen = "0.0.0.0"
	assert.Error(t, Normalize(cfg), "missing port")

	cfg.Webhook.Port = 8443
	require.NoError(t, Normalize(cfg))
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	err := Normalize(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestNormalizeRejectsBadTimezone(t *testing.T) {
	cfg := baseConfig()
	cfg.Report.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeMailDefaults(t *testing.T) {
	cfg := baseConfig()
	cfg.Mail = MailConfig{Host: "smtp.gmail.com", Username: "bot@gmail.com"}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "bot@gmail.com", cfg.Mail.From)
	assert.True(t, cfg.Mail.Enabled())

	assert.False(t, MailConfig{}.Enabled())
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
telegram:
  token: "from-file"
  run_mode: "longpoll"
report:
  timezone: "Asia/Jakarta"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("BOT_TOKEN", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, "Asia/Jakarta", cfg.Report.Timezone)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRateLimitInterval(t *testing.T) {
	assert.Zero(t, RateLimitConfig{}.Interval())
	assert.Equal(t, int64(500), RateLimitConfig{IntervalMS: 500}.Interval().Milliseconds())
}

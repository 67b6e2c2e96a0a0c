package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_PATH", "URL", "KEYWORDS", "BOT_TOKEN", "USER_ID", "USER_AGENT", "FETCH_MODE",
	"CALENDAR", "TIMEZONE", "PORT", "MAX_PAGES", "CHUNK_SIZE", "FETCH_TIMEOUT",
	"THROTTLE_DELAY", "SEND_DELAY", "RUN_TIMEOUT", "STRICT_SCRAPE",
}

// clearEnv unsets every key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("URL", "https://jobinja.ir/jobs?filters%5Bkeywords%5D%5B0%5D=golang")
	t.Setenv("BOT_TOKEN", "123456:ABCDEF")
	t.Setenv("USER_ID", "42")
}

func missingPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("KEYWORDS", " Golang, Backend ,, ")

	cfg, err := Load(missingPath(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"golang", "backend"}, cfg.Keywords)
	assert.Equal(t, "PostmanRuntime/7.37.3", cfg.UserAgent)
	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
	assert.Equal(t, 50, cfg.MaxPages)
	assert.Equal(t, 12, cfg.ChunkSize)
	assert.Equal(t, 100*time.Millisecond, cfg.ThrottleDelay)
	assert.Equal(t, 10*time.Second, cfg.SendDelay)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.Equal(t, "jalali", cfg.Calendar)
	assert.Equal(t, "Asia/Tehran", cfg.Timezone)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.StrictScrape)
}

func TestLoad_MissingKeywordsMeansNone(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := Load(missingPath(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.Keywords)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://jobinja.ir/jobs?filters%5Bkeywords%5D%5B0%5D=go
keywords: [" Go ", "DevOps"]
bot_token: from-yaml-token
user_id: "@jobs_channel"
send_delay: 3s
chunk_size: 5
calendar: gregorian
timezone: UTC
strict_scrape: true
`), 0644))

	t.Setenv("CHUNK_SIZE", "8")
	t.Setenv("SEND_DELAY", "1500ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "devops"}, cfg.Keywords)
	assert.Equal(t, "from-yaml-token", cfg.TelegramToken)
	assert.Equal(t, "@jobs_channel", cfg.TelegramChatID)
	assert.Equal(t, 8, cfg.ChunkSize, "env wins over yaml")
	assert.Equal(t, 1500*time.Millisecond, cfg.SendDelay)
	assert.Equal(t, "gregorian", cfg.Calendar)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.StrictScrape)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	path := filepath.Join(t.TempDir(), "alt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_pages: 7\n"), 0644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("ignored.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxPages)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing url", env: map[string]string{"URL": ""}},
		{name: "relative url", env: map[string]string{"URL": "/jobs?page=1"}},
		{name: "missing token", env: map[string]string{"BOT_TOKEN": ""}},
		{name: "missing user", env: map[string]string{"USER_ID": ""}},
		{name: "bad int", env: map[string]string{"MAX_PAGES": "many"}},
		{name: "bad duration", env: map[string]string{"SEND_DELAY": "10"}},
		{name: "bad bool", env: map[string]string{"STRICT_SCRAPE": "sometimes"}},
		{name: "negative chunk", env: map[string]string{"CHUNK_SIZE": "-1"}},
		{name: "unknown fetch mode", env: map[string]string{"FETCH_MODE": "curl"}},
		{name: "unknown calendar", env: map[string]string{"CALENDAR": "lunar"}},
		{name: "unknown timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(missingPath(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMasked(t *testing.T) {
	cfg := &Config{TelegramToken: "123456:ABCDEFGHIJ"}
	assert.Equal(t, "123456******", cfg.Masked().TelegramToken)
	assert.Equal(t, "123456:ABCDEFGHIJ", cfg.TelegramToken, "original is untouched")

	short := &Config{TelegramToken: "abc"}
	assert.Equal(t, "******", short.Masked().TelegramToken)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "feed", cfg.Scraper.Mode)
	assert.Equal(t, "http", cfg.Scraper.Renderer)
	assert.Equal(t, "v2-slots", cfg.Scraper.SelectorProfile)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 60*time.Second, cfg.Monitor.FreshnessWindow)
	require.NotNil(t, cfg.Monitor.MaxMinutesOld)
	assert.Equal(t, 1, *cfg.Monitor.MaxMinutesOld)
	assert.Equal(t, 5*time.Second, cfg.Monitor.ClockSkew)
	assert.Equal(t, time.Hour, cfg.Monitor.UserItemWindow)
	assert.Equal(t, 30*time.Minute, cfg.Monitor.ContentWindow)
	assert.Equal(t, "memory", cfg.Monitor.CacheBackend)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3, cfg.Discord.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Discord.CommandTimeout)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TRACKER_TEST_TOKEN", "secret-token")

	cfg, err := Load(writeConfig(t, `
discord:
  token: ${TRACKER_TEST_TOKEN}
  owner_id: "42"
monitor:
  interval: 30s
  max_minutes_old: 2
scraper:
  mode: item
  selectors:
    container: ".trade_ad"
`))
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Discord.Token)
	assert.Equal(t, "42", cfg.Discord.OwnerID)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 2, *cfg.Monitor.MaxMinutesOld)
	assert.Equal(t, "item", cfg.Scraper.Mode)
	assert.Equal(t, ".trade_ad", cfg.Scraper.Selectors["container"])
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	_, err := Load(writeConfig(t, "scraper:\n  mode: stream\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper.mode")
}

func TestLoad_ExplicitZeroMaxMinutesOld(t *testing.T) {
	cfg, err := Load(writeConfig(t, "monitor:\n  max_minutes_old: 0\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Monitor.MaxMinutesOld)
	assert.Equal(t, 0, *cfg.Monitor.MaxMinutesOld)
}

func TestLoad_RejectsNegativeMaxMinutesOld(t *testing.T) {
	_, err := Load(writeConfig(t, "monitor:\n  max_minutes_old: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor.max_minutes_old")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "tracker", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=tracker sslmode=disable", d.DSN())

	d.URL = "postgres://u:p@db/tracker"
	assert.Equal(t, "postgres://u:p@db/tracker", d.DSN())
}

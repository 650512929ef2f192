package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	want := DefaultConfig()
	want.Web.AllowedOrigins = defaultOrigins
	assert.Equal(t, want, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8080", cfg.Web.Addr())
	assert.Equal(t, "[::]:2222", cfg.SSH.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
web:
  port: 9000
  allow_all: true
ssh:
  host_key: /tmp/key
db:
  path: /var/lib/portfolio.db
log:
  level: debug
`)
	t.Setenv("PORTFOLIO_WEB_PORT", "9100")
	t.Setenv("PORTFOLIO_SSH_HOST_KEY", "/etc/key")
	t.Setenv("PORTFOLIO_WEB_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Web.Port, "env overrides file")
	assert.True(t, cfg.Web.AllowAll)
	assert.Equal(t, "/etc/key", cfg.SSH.HostKey)
	assert.Equal(t, 2222, cfg.SSH.Port, "default kept")
	assert.Equal(t, "/var/lib/portfolio.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Web.AllowedOrigins)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "web: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"web port": func(c *Config) { c.Web.Port = 0 },
		"ssh port": func(c *Config) { c.SSH.Port = 70000 },
		"db path":  func(c *Config) { c.DB.Path = "" },
		"level":    func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(LogConfig{Level: "nope"})
	assert.Error(t, err)
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.log")
	logger, err := NewLogger(LogConfig{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("hello file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("PORTFOLIO_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("PORTFOLIO_TEST_UNSET", "fallback"))

	t.Setenv("PORTFOLIO_CONFIG", "/etc/portfolio.yaml")
	assert.Equal(t, "/etc/portfolio.yaml", DefaultPath())
}

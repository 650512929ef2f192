package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the settings of every binary. Each binary reads only the
// sections it needs.
type Config struct {
	Web     WebConfig     `koanf:"web"`
	SSH     SSHConfig     `koanf:"ssh"`
	DB      DBConfig      `koanf:"db"`
	Content ContentConfig `koanf:"content"`
	Log     LogConfig     `koanf:"log"`
}

// WebConfig configures the HTTP server.
type WebConfig struct {
	Host           string   `koanf:"host"`
	Port           int      `koanf:"port"`
	AllowAll       bool     `koanf:"allow_all"` // allow all CORS origins
	AllowedOrigins []string `koanf:"allowed_origins"`
	SSHDisplayHost string   `koanf:"ssh_display_host"` // shown on the landing page
}

// Addr returns host:port.
func (w WebConfig) Addr() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	HostKey string `koanf:"host_key"`
}

// Addr returns host:port.
func (s SSHConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `koanf:"path"`
}

// ContentConfig locates the portfolio content. An empty path uses the
// embedded content.
type ContentConfig struct {
	Path string `koanf:"path"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
	File        string `koanf:"file"` // stderr when empty
}

// defaultOrigins applies only when no allowed_origins are configured.
// Unmarshalling onto a prefilled slice would merge element by element.
var defaultOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Web: WebConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			SSHDisplayHost: "localhost",
		},
		SSH: SSHConfig{
			Host:    "::",
			Port:    2222,
			HostKey: "/app/keys/host_key",
		},
		DB:  DBConfig{Path: "data/portfolio.db"},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file is not an error.
//
// PORTFOLIO_WEB_PORT sets web.port, PORTFOLIO_SSH_HOST_KEY sets
// ssh.host_key: the first underscore after the prefix separates the section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Web.AllowedOrigins = splitList(cfg.Web.AllowedOrigins)
	if len(cfg.Web.AllowedOrigins) == 0 {
		cfg.Web.AllowedOrigins = defaultOrigins
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// splitList expands comma-separated entries, which is how a list arrives
// from the environment.
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web.port %d", c.Web.Port)
	}
	if c.SSH.Port < 1 || c.SSH.Port > 65535 {
		return fmt.Errorf("invalid ssh.port %d", c.SSH.Port)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return nil
}

// NewLogger builds a zap logger from the log settings.
func NewLogger(lc LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		level, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if lc.File != "" {
		zc.OutputPaths = []string{lc.File}
		zc.ErrorOutputPaths = []string{lc.File}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

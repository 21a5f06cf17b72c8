package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/cwreports/pkg/models"
)

const (
	envPrefix   = "CWREPORTS"
	appDir      = "cw-reports"
	defaultName = "config.yaml"
)

// Config holds the settings shared by the CLI and the server.
type Config struct {
	AccessToken    string `mapstructure:"access_token"`
	TokenExpiresAt int64  `mapstructure:"token_expires_at"`
	ClientID       string `mapstructure:"client_id"`
	OAuthState     string `mapstructure:"oauth_state"`
	Budget         string `mapstructure:"budget"`
	Format         string `mapstructure:"format"`
	Addr           string `mapstructure:"addr"`

	v    *viper.Viper
	path string
}

// flag name -> config key
var flagKeys = map[string]string{
	"token":     "access_token",
	"budget":    "budget",
	"format":    "format",
	"addr":      "addr",
	"client-id": "client_id",
}

// Build loads configuration from, lowest first: defaults, the YAML file, .env,
// CWREPORTS_* environment variables and the given flags. A missing config file
// is not an error.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("access_token", "")
	v.SetDefault("token_expires_at", 0)
	v.SetDefault("client_id", "")
	v.SetDefault("oauth_state", "")
	v.SetDefault("budget", "last-used")
	v.SetDefault("format", "table")
	v.SetDefault("addr", "127.0.0.1:3000")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path == "" {
		path = defaultPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{v: v, path: path}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// defaultPath prefers ./config.yaml and falls back to the user config dir.
func defaultPath() string {
	if _, err := os.Stat(defaultName); err == nil {
		return defaultName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultName
	}
	return filepath.Join(dir, appDir, defaultName)
}

func (c *Config) Path() string {
	return c.path
}

// TokenExpired reports whether the stored token has a known expiry in the past.
func (c *Config) TokenExpired(now time.Time) bool {
	return c.TokenExpiresAt > 0 && now.Unix() >= c.TokenExpiresAt
}

// SetToken records a token received at issued. It is persisted by Save.
func (c *Config) SetToken(tok models.Token, issued time.Time) {
	var expires int64
	if at := tok.ExpiresAt(issued); !at.IsZero() {
		expires = at.Unix()
	}
	c.AccessToken = tok.AccessToken
	c.TokenExpiresAt = expires
	c.OAuthState = ""
	c.v.Set("access_token", c.AccessToken)
	c.v.Set("token_expires_at", c.TokenExpiresAt)
	c.v.Set("oauth_state", "")
}

func (c *Config) SetOAuthState(state string) {
	c.OAuthState = state
	c.v.Set("oauth_state", state)
}

// Save writes the settings back to the config file.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.path, err)
	}
	return os.Chmod(c.path, 0o600)
}

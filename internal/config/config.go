package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API   APIConfig
	Poll  PollConfig
	State StateConfig
	Log   LogConfig
}

// APIConfig holds the remote workflow service settings.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout time.Duration
}

// PollConfig holds the automatic refresh timings.
type PollConfig struct {
	RefreshInterval    time.Duration `mapstructure:"refresh_interval"`
	AssignmentInterval time.Duration `mapstructure:"assignment_interval"`
	DebounceDelay      time.Duration `mapstructure:"debounce_delay"`
}

// StateConfig holds the local state database settings.
type StateConfig struct {
	Path string
}

// LogConfig holds logging settings. Logs go to a file so they never tear the
// TUI screen.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix
// LOANDESK_, e.g. LOANDESK_API_BASE_URL.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("poll.refresh_interval", "60s")
	v.SetDefault("poll.assignment_interval", "30s")
	v.SetDefault("poll.debounce_delay", "300ms")
	v.SetDefault("state.path", filepath.Join(home, ".local", "share", "loandesk", "state.sqlite"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "share", "loandesk", "loandesk.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("LOANDESK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "loandesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LOANDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Package config implements TOML configuration loading for mediafire-go
// with a three-layer override chain: built-in defaults, then the config
// file, then MEDIAFIRE_* environment variables. CLI flags override all
// three at the call site.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variable names recognized as overrides.
const (
	EnvConfig  = "MEDIAFIRE_CONFIG"
	EnvAppID   = "MEDIAFIRE_APP_ID"
	EnvBaseURL = "MEDIAFIRE_API_BASE_URL"
	EnvEmail   = "MEDIAFIRE_EMAIL"
)

// Built-in defaults.
const (
	defaultBaseURL         = "https://www.mediafire.com"
	defaultHTTPTimeoutSecs = 30
	defaultPollIntervalSec = 2
	defaultPollAttempts    = 30
	defaultLogLevel        = "info"
)

// Config is the effective configuration after all override layers.
type Config struct {
	// APIBaseURL is the scheme+host the client talks to.
	APIBaseURL string `toml:"api_base_url"`

	// AppID is the application id registered with the service; it is part
	// of the login signature.
	AppID string `toml:"app_id"`

	// Email is the default login identity, so `login` can be run without
	// arguments.
	Email string `toml:"email"`

	// SessionPath and HistoryPath override the XDG-derived defaults.
	SessionPath string `toml:"session_path"`
	HistoryPath string `toml:"history_path"`

	// HTTPTimeoutSecs bounds each HTTP exchange.
	HTTPTimeoutSecs int `toml:"http_timeout_secs"`

	// PollIntervalSecs and PollMaxAttempts shape the upload confirmation
	// loop.
	PollIntervalSecs int `toml:"poll_interval_secs"`
	PollMaxAttempts  int `toml:"poll_max_attempts"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `toml:"log_level"`
}

// Load resolves the effective configuration. path may be empty, in which
// case MEDIAFIRE_CONFIG and then the platform default location are
// tried; a missing config file is not an error — defaults plus
// environment still apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	fillDerived(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		APIBaseURL:       defaultBaseURL,
		HTTPTimeoutSecs:  defaultHTTPTimeoutSecs,
		PollIntervalSecs: defaultPollIntervalSec,
		PollMaxAttempts:  defaultPollAttempts,
		LogLevel:         defaultLogLevel,
	}
}

func loadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
	}

	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAppID); v != "" {
		cfg.AppID = v
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.APIBaseURL = v
	}

	if v := os.Getenv(EnvEmail); v != "" {
		cfg.Email = v
	}
}

func fillDerived(cfg *Config) {
	if cfg.SessionPath == "" {
		cfg.SessionPath = DefaultSessionPath()
	}

	if cfg.HistoryPath == "" {
		cfg.HistoryPath = DefaultHistoryPath()
	}
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}

	if c.HTTPTimeoutSecs <= 0 {
		return fmt.Errorf("config: http_timeout_secs must be positive, got %d", c.HTTPTimeoutSecs)
	}

	if c.PollIntervalSecs <= 0 {
		return fmt.Errorf("config: poll_interval_secs must be positive, got %d", c.PollIntervalSecs)
	}

	if c.PollMaxAttempts <= 0 {
		return fmt.Errorf("config: poll_max_attempts must be positive, got %d", c.PollMaxAttempts)
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("config: api_base_url must not be empty")
	}

	return nil
}

// HTTPTimeout returns the HTTP exchange timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}

// PollInterval returns the upload poll delay as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSecs) * time.Second
}

// String renders the config for `config show`, one key per line.
func (c *Config) String() string {
	return "api_base_url = " + c.APIBaseURL + "\n" +
		"app_id = " + c.AppID + "\n" +
		"email = " + c.Email + "\n" +
		"session_path = " + c.SessionPath + "\n" +
		"history_path = " + c.HistoryPath + "\n" +
		"http_timeout_secs = " + strconv.Itoa(c.HTTPTimeoutSecs) + "\n" +
		"poll_interval_secs = " + strconv.Itoa(c.PollIntervalSecs) + "\n" +
		"poll_max_attempts = " + strconv.Itoa(c.PollMaxAttempts) + "\n" +
		"log_level = " + c.LogLevel + "\n"
}

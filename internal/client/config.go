package client

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig
const (
	EnvBaseURL       = "ERP_API_BASE_URL"
	EnvTimeout       = "ERP_API_TIMEOUT"
	EnvAppName       = "ERP_APP_NAME"
	EnvAppVersion    = "ERP_APP_VERSION"
	EnvFeaturePrefix = "ERP_FEATURE_"
)

// Config is the client environment
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	AppName    string
	AppVersion string
	// Features holds ERP_FEATURE_<NAME> switches keyed by lower-case name
	Features map[string]bool
}

// DefaultConfig returns the settings used when the environment is empty
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		Timeout:    30 * time.Second,
		AppName:    "ERP Back Office",
		AppVersion: "1.0.0",
		Features:   map[string]bool{},
	}
}

// LoadConfig reads the client environment. Each env file is loaded when it
// exists; variables already set in the process win over file values.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return configFromEnv(os.Environ())
}

func configFromEnv(environ []string) (*Config, error) {
	cfg := DefaultConfig()
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case key == EnvBaseURL && value != "":
			cfg.BaseURL = strings.TrimRight(value, "/")
		case key == EnvTimeout && value != "":
			d, err := parseTimeout(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
			}
			cfg.Timeout = d
		case key == EnvAppName && value != "":
			cfg.AppName = value
		case key == EnvAppVersion && value != "":
			cfg.AppVersion = value
		case strings.HasPrefix(key, EnvFeaturePrefix):
			on, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			cfg.Features[strings.ToLower(strings.TrimPrefix(key, EnvFeaturePrefix))] = on
		}
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid URL %q", EnvBaseURL, cfg.BaseURL)
	}
	return cfg, nil
}

// parseTimeout accepts a Go duration or a plain number of milliseconds
func parseTimeout(value string) (time.Duration, error) {
	if ms, err := strconv.Atoi(value); err == nil {
		if ms <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}

// Enabled reports whether a feature switch is on
func (c *Config) Enabled(feature string) bool {
	return c.Features[strings.ToLower(feature)]
}

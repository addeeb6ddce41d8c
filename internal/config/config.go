// Package config loads shopfront settings from config.yaml, SHOPFRONT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// DatabaseFile is the state database name inside the data directory.
	DatabaseFile = "state.db"

	envPrefix = "SHOPFRONT"
)

// Config keys.
const (
	KeyAPIURL         = "api_url"
	KeyWSURL          = "ws_url"
	KeyDataDir        = "data_dir"
	KeyRequestTimeout = "request_timeout"
	KeyReconnectDelay = "reconnect_delay"
	KeyMaxPrice       = "max_price"
	KeyRateLimit      = "rate_limit"
)

// Defaults.
const (
	DefaultAPIURL         = "http://127.0.0.1:5000"
	DefaultWSURL          = "ws://localhost:5000"
	DefaultRequestTimeout = 10 * time.Second
	DefaultReconnectDelay = 5 * time.Second
	DefaultMaxPrice       = 1000.0
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# shopfront configuration

# Backend REST endpoint
api_url: http://127.0.0.1:5000

# Push notification endpoint
ws_url: ws://localhost:5000

# Per-request timeout
request_timeout: 10s

# Fixed wait between push channel reconnect attempts
reconnect_delay: 5s

# Upper bound of the default price filter
max_price: 1000

# Requests per second sent to the backend (0 disables throttling)
rate_limit: 0

# Directory holding state.db (optional; overridable by --data-dir)
# data_dir:
`

// Config is the resolved configuration.
type Config struct {
	APIURL         string
	WSURL          string
	ConfigDir      string
	DataDir        string
	RequestTimeout time.Duration
	ReconnectDelay time.Duration
	MaxPrice       float64
	RateLimit      float64
}

// DatabasePath is the SQLite file holding persisted state.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFile)
}

// Overrides carries flag values. Zero values are ignored.
type Overrides struct {
	ConfigDir string
	DataDir   string
	APIURL    string
	WSURL     string
}

// Load resolves directories, creates a default config.yaml on first run and
// reads it through viper. A missing config file is not an error.
func Load(o Overrides) (Config, error) {
	configDir, err := ResolveConfigDir(o.ConfigDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if o.APIURL != "" {
		v.Set(KeyAPIURL, o.APIURL)
	}
	if o.WSURL != "" {
		v.Set(KeyWSURL, o.WSURL)
	}

	dataDir, err := ResolveDataDir(o.DataDir, v.GetString(KeyDataDir))
	if err != nil {
		return Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := Config{
		APIURL:         strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		WSURL:          strings.TrimRight(v.GetString(KeyWSURL), "/"),
		ConfigDir:      configDir,
		DataDir:        dataDir,
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		ReconnectDelay: v.GetDuration(KeyReconnectDelay),
		MaxPrice:       v.GetFloat64(KeyMaxPrice),
		RateLimit:      v.GetFloat64(KeyRateLimit),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyWSURL, DefaultWSURL)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyReconnectDelay, DefaultReconnectDelay)
	v.SetDefault(KeyMaxPrice, DefaultMaxPrice)
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyDataDir, "")
}

func (c Config) validate() error {
	switch {
	case c.APIURL == "":
		return errors.New("config: api_url is empty")
	case c.WSURL == "":
		return errors.New("config: ws_url is empty")
	case c.RequestTimeout <= 0:
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	case c.ReconnectDelay <= 0:
		return fmt.Errorf("config: reconnect_delay must be positive, got %s", c.ReconnectDelay)
	case c.MaxPrice <= 0:
		return fmt.Errorf("config: max_price must be positive, got %v", c.MaxPrice)
	case c.RateLimit < 0:
		return fmt.Errorf("config: rate_limit cannot be negative, got %v", c.RateLimit)
	}
	return nil
}

// ensureDefaultConfigFile writes config.yaml if it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

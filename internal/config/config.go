// ABOUTME: Configuration loading and parsing for comanda
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file leaves a field unset.
const (
	DefaultLocalAddr = "127.0.0.1:4780"
	DefaultLANAddr   = "0.0.0.0:4781"
	DefaultDebounce  = 2 * time.Second
	DefaultTimeout   = 5 * time.Second
)

// Config represents the complete comanda configuration
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig holds the document store configuration
type StoreConfig struct {
	Path     string        `yaml:"path"`
	Debounce time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	DebounceRaw string `yaml:"debounce"`
}

// ServerConfig holds the HTTP listener configuration.
// LocalAddr serves the full collaborator API and should stay on loopback;
// LANAddr serves the read-only facade consumed by client-mode instances.
type ServerConfig struct {
	LocalAddr  string `yaml:"local_addr"`
	LANAddr    string `yaml:"lan_addr"`
	LANEnabled bool   `yaml:"lan_enabled"`
	AuthSecret string `yaml:"auth_secret"`
}

// ClientConfig holds client-mode configuration: where the peer server-mode
// instance lives and how to authenticate against its facade.
type ClientConfig struct {
	Enabled    bool          `yaml:"enabled"`
	ServerURL  string        `yaml:"server_url"`
	AuthSecret string        `yaml:"auth_secret"`
	Timeout    time.Duration `yaml:"-"`

	TimeoutRaw string `yaml:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.LocalAddr == "" {
		c.Server.LocalAddr = DefaultLocalAddr
	}
	if c.Server.LANAddr == "" {
		c.Server.LANAddr = DefaultLANAddr
	}
	if c.Store.Debounce == 0 {
		c.Store.Debounce = DefaultDebounce
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = DefaultTimeout
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Client.Enabled {
		if c.Client.ServerURL == "" {
			return fmt.Errorf("client.server_url is required when client mode is enabled")
		}
		return nil
	}

	// Server mode owns the local store file
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Store.DebounceRaw != "" {
		cfg.Store.Debounce, err = time.ParseDuration(cfg.Store.DebounceRaw)
		if err != nil {
			return fmt.Errorf("parsing store.debounce %q: %w", cfg.Store.DebounceRaw, err)
		}
	}

	if cfg.Client.TimeoutRaw != "" {
		cfg.Client.Timeout, err = time.ParseDuration(cfg.Client.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing client.timeout %q: %w", cfg.Client.TimeoutRaw, err)
		}
	}

	return nil
}

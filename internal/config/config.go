package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"gopkg.in/yaml.v3"
)

// Config represents the keystone-wsgi parameters.
type Config struct {
	ServerName   string `yaml:"servername"`
	BaseURL      string `yaml:"base_url"`
	Port         int    `yaml:"port"`
	SSLPort      int    `yaml:"ssl_port"`
	SSL          bool   `yaml:"ssl"`
	SSLOnly      bool   `yaml:"ssl_only"`
	Workers      int    `yaml:"workers"`
	Threads      int    `yaml:"threads"`
	SSLDirective string `yaml:"ssl_directive,omitempty"`
	SSLCert      string `yaml:"ssl_cert,omitempty"`
	SSLKey       string `yaml:"ssl_key,omitempty"`
	LogDir       string `yaml:"log_dir,omitempty"`
	Paths        Paths  `yaml:"paths,omitempty"`
}

// Paths overrides the detected Apache vhost directories.
type Paths struct {
	Available string `yaml:"available,omitempty"`
	Enabled   string `yaml:"enabled,omitempty"`
}

// IsZero reports whether no override is set.
func (p Paths) IsZero() bool {
	return p.Available == "" && p.Enabled == ""
}

// configDir is the default config directory
const configDir = ".config/keystone-wsgi"
const configFile = "config.yaml"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		BaseURL: wsgi.DefaultBaseURL,
		Port:    wsgi.DefaultPort,
		SSLPort: wsgi.DefaultSSLPort,
		Threads: wsgi.DefaultThreads,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the config file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeConfig, "failed to read config", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeConfig, "failed to parse config", err)
	}

	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate rejects parameter sets the generator should never see.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "/") {
		return kerrors.Validation("base_url must start with /: %q", c.BaseURL)
	}
	if strings.ContainsAny(c.BaseURL, " \t\"") {
		return kerrors.Validation("base_url cannot contain whitespace or quotes: %q", c.BaseURL)
	}
	if strings.ContainsAny(c.ServerName, " \t") {
		return kerrors.Validation("servername cannot contain whitespace: %q", c.ServerName)
	}
	if err := validatePort("port", c.Port); err != nil {
		return err
	}
	if err := validatePort("ssl_port", c.SSLPort); err != nil {
		return err
	}
	if c.SSL && c.Port == c.SSLPort && !c.SSLOnly {
		return kerrors.Validation("port and ssl_port cannot both be %d", c.Port)
	}
	if c.Workers < 0 {
		return kerrors.Validation("workers cannot be negative: %d", c.Workers)
	}
	if c.Threads < 1 {
		return kerrors.Validation("threads must be at least 1: %d", c.Threads)
	}
	if c.SSLDirective != "" && !wsgi.IsValidSSLDirective(c.SSLDirective) {
		return kerrors.Validation("invalid ssl_directive %q (valid: %s, %s)", c.SSLDirective, wsgi.NSSRequireSSL, wsgi.SSLRequireSSL)
	}
	if c.SSLOnly && !c.SSL {
		return kerrors.Validation("ssl_only requires ssl to be enabled")
	}
	if c.LogDir != "" && !filepath.IsAbs(c.LogDir) {
		return kerrors.Validation("log_dir must be absolute: %q", c.LogDir)
	}
	if (c.Paths.Available == "") != (c.Paths.Enabled == "") {
		return kerrors.Validation("paths.available and paths.enabled must be set together")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return kerrors.Validation("%s %d out of range (1-65535)", name, port)
	}
	return nil
}

// Input resolves the config into generator input, taking host-dependent
// defaults from facts where the config leaves them unset.
func (c *Config) Input(facts wsgi.HostFacts) wsgi.Input {
	in := wsgi.DefaultInput(facts)

	if c.ServerName != "" {
		in.ServerName = c.ServerName
	}
	in.BaseURL = c.BaseURL
	in.Port = c.Port
	in.SSLPort = c.SSLPort
	in.SSL = c.SSL
	in.SSLOnly = c.SSLOnly
	if c.Workers > 0 {
		in.WorkerProcesses = c.Workers
	}
	in.WorkerThreads = c.Threads
	if c.SSLDirective != "" {
		in.SSLDirective = wsgi.SSLDirective(c.SSLDirective)
	}

	return in
}

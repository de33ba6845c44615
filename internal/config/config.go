package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"agentsync/internal/canonical"
	"agentsync/internal/logging"
	"agentsync/internal/providers"
	"agentsync/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "agentsync" // application name used for config directory

// CurrentVersion is written into new configuration files.
const CurrentVersion = "1"

// Config holds user configuration for agentsync. Command-line flags take
// precedence over every field.
type Config struct {
	// CanonicalDir is the canonical directory, relative to the project root.
	CanonicalDir string `yaml:"canonical_dir"`

	// SkipGitCheck disables the clean working tree check.
	SkipGitCheck bool `yaml:"skip_git_check"`

	// Providers restricts generation to these provider ids. Empty means all.
	Providers []string `yaml:"providers,omitempty"`

	Version string `yaml:"version"`
}

// ConfigPath returns the config file location under the XDG config home.
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		CanonicalDir: canonical.DefaultDir,
		Version:      CurrentVersion,
	}
}

// Load reads the config from the standard location. A missing file yields
// the defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("No config file, using defaults", "path", path)
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	logging.Debug("Decoding config file", "path", path)
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the canonical directory and provider ids.
func (c *Config) Validate() error {
	if err := fileops.ValidateRelativeDir(c.CanonicalDir); err != nil {
		return fmt.Errorf("canonical_dir: %w", err)
	}
	if _, err := providers.Select(c.Providers); err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	return nil
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := fileops.AtomicWriteFile(path, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	logging.Info("Configuration saved", "path", path)
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

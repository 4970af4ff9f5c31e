package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"fsgate/internal/logging"
	"fsgate/internal/policy"
)

const APP_NAME = "fsgate" // application name used for config directory

// Config holds the engine's access policy as persisted on disk. It is read
// once at startup; the running engine never sees later edits.
type Config struct {
	// AllowedDirs are the sandbox roots. Every file operation is confined
	// to these directories.
	AllowedDirs []string `yaml:"allowed_dirs"`

	// AllowedExtensions, when non-empty, restricts operations to the
	// listed suffixes. DeniedExtensions always wins over it.
	AllowedExtensions []string `yaml:"allowed_extensions"`
	DeniedExtensions  []string `yaml:"denied_extensions"`

	// MaxFileSize is the byte ceiling for read, write, hash, and
	// content-search operations.
	MaxFileSize int64 `yaml:"max_file_size"`

	Version string `yaml:"version"` // Track config version
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location.
// If no config exists, it returns an error indicating first run is needed.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		return nil, fmt.Errorf("no configuration found, first-time setup required")
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	// Check primary location first
	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// DefaultConfig returns a Config with sensible defaults: the current
// working directory and the user's Documents folder as sandbox roots, a
// text-oriented allow list, an executable deny list, and a 10 MiB ceiling.
func DefaultConfig() Config {
	var roots []string
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, "Documents"))
	}

	return Config{
		AllowedDirs: roots,
		AllowedExtensions: []string{
			".txt", ".md", ".json", ".yaml", ".yml", ".csv", ".log",
			".py", ".js", ".html", ".css", ".xml", ".ini", ".cfg",
		},
		DeniedExtensions: []string{
			".exe", ".bat", ".cmd", ".sh", ".ps1", ".dll", ".so",
		},
		MaxFileSize: 10 * 1024 * 1024,
		Version:     "1.0",
	}
}

// Policy builds the immutable policy store described by this config.
func (c *Config) Policy() (*policy.Store, error) {
	return policy.New(c.AllowedDirs, c.AllowedExtensions, c.DeniedExtensions, c.MaxFileSize)
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

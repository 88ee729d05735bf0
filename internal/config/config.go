// Package config handles XDG directories, config.yaml and file paths.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ltask/internal/kv"
	"ltask/internal/logging"
	"ltask/internal/persist"
)

const (
	// AppName is the application directory name.
	AppName = "ltask"

	// ConfigFile is the optional settings file in the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultGoogleList is the Google Tasks list that push mirrors into.
	DefaultGoogleList = "ltask"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// DataDir holds the task storage.
	DataDir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Ephemeral keeps tasks in memory only.
	Ephemeral bool

	// Settings are read from config.yaml.
	Settings Settings

	// Logger is the diagnostic logger; nil means discard.
	Logger *zap.Logger
}

// Log returns the configured logger or a no-op logger.
func (c *Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Settings mirrors config.yaml.
type Settings struct {
	Storage StorageSettings `yaml:"storage"`
	Google  GoogleSettings  `yaml:"google"`
	Log     LogSettings     `yaml:"log"`
}

// StorageSettings selects the key-value backend and slot.
type StorageSettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Slot    string `yaml:"slot"`
}

// GoogleSettings configures the push command.
type GoogleSettings struct {
	List string `yaml:"list"`
}

// LogSettings configures the diagnostic logger.
type LogSettings struct {
	Level string `yaml:"level"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{Backend: kv.BackendFile, Slot: persist.DefaultSlot},
		Google:  GoogleSettings{List: DefaultGoogleList},
		Log:     LogSettings{Level: logging.DefaultLevel},
	}
}

// New creates a Config with the default or specified config directory and
// loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/ltask or $HOME/.config/ltask.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:      dir,
		DataDir:  DefaultDataDir(),
		Settings: DefaultSettings(),
	}
	// An explicit config dir keeps data next to it so separate profiles
	// never share a slot.
	if configDir != "" {
		cfg.DataDir = filepath.Join(configDir, "data")
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load merges config.yaml over the defaults.
func (c *Config) load() error {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return c.Validate()
}

// Validate checks settings that would otherwise fail later.
func (c *Config) Validate() error {
	def := DefaultSettings()
	if c.Settings.Storage.Backend == "" {
		c.Settings.Storage.Backend = def.Storage.Backend
	}
	if c.Settings.Storage.Slot == "" {
		c.Settings.Storage.Slot = def.Storage.Slot
	}
	if c.Settings.Google.List == "" {
		c.Settings.Google.List = def.Google.List
	}
	switch c.Settings.Storage.Backend {
	case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Settings.Storage.Backend)
	}
	if _, err := logging.ParseLevel(c.Settings.Log.Level); err != nil {
		return err
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns the default data directory.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(AppName, "data")
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StorageBackend returns the backend to open, honoring Ephemeral.
func (c *Config) StorageBackend() string {
	if c.Ephemeral {
		return kv.BackendMemory
	}
	return c.Settings.Storage.Backend
}

// StoragePath returns the location of the key-value store for the
// configured backend.
func (c *Config) StoragePath() string {
	if c.Settings.Storage.Path != "" {
		return c.Settings.Storage.Path
	}
	if c.Settings.Storage.Backend == kv.BackendSQLite {
		return filepath.Join(c.DataDir, AppName+".db")
	}
	return filepath.Join(c.DataDir, "slots")
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

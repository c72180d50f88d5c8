package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/zhubert/tabterm/internal/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. TABTERM_SHELL.
const EnvPrefix = "tabterm"

// UserShellEnv names the variable through which the launcher tells the TUI
// which login shell to run. It is never passed on to child shells, so a
// shell that is tabterm itself cannot recurse.
const UserShellEnv = "TABTERM_USER_SHELL"

// Defaults for the session daemon.
const (
	DefaultSocketDir = "/run/tabterm"
	DefaultLogDir    = "/var/log/tabterm"
)

// Config holds the application configuration. Values come from the JSON file
// first and are then overridden by TABTERM_* environment variables
// (TABTERM_SHELL, TABTERM_THEME, TABTERM_NOTIFICATIONS_ENABLED,
// TABTERM_SOCKET_DIR, TABTERM_LOG_DIR). Fields carry no envconfig tag: a tag
// would make the bare name (SHELL, ...) an accepted fallback key.
type Config struct {
	Shell                string `json:"shell,omitempty"`                                    // Shell spawned in new tabs (empty: detect)
	Theme                string `json:"theme,omitempty"`                                    // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty" split_words:"true"` // Desktop notification when a background shell exits
	SocketDir            string `json:"socket_dir,omitempty" split_words:"true"`            // Directory for the daemon's health socket
	LogDir               string `json:"log_dir,omitempty" split_words:"true"`               // Directory for daemon log files

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tabterm"), nil
}

// Dir returns the config directory, ~/.config/tabterm.
func Dir() (string, error) {
	return configDir()
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from path. A missing file yields the defaults.
// Environment overrides are applied after the file is read.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, pkgerrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, pkgerrors.ConfigLoadFailed(path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, pkgerrors.ConfigLoadFailed(path, err)
	}

	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized fills unset fields with their defaults.
//
// Thread-safety: only called from LoadFrom before the Config is shared.
func (c *Config) ensureInitialized() {
	if c.SocketDir == "" {
		c.SocketDir = DefaultSocketDir
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Shell != "" && !filepath.IsAbs(c.Shell) {
		return pkgerrors.ConfigInvalid("shell must be an absolute path: " + c.Shell)
	}
	if c.SocketDir != "" && !filepath.IsAbs(c.SocketDir) {
		return pkgerrors.ConfigInvalid("socket_dir must be an absolute path: " + c.SocketDir)
	}
	if c.LogDir != "" && !filepath.IsAbs(c.LogDir) {
		return pkgerrors.ConfigInvalid("log_dir must be an absolute path: " + c.LogDir)
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return pkgerrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// FilePath returns the file Save writes to.
func (c *Config) FilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetShell returns the configured shell, or "" to fall back to detection.
func (c *Config) GetShell() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Shell
}

// SetShell sets the shell spawned in new tabs
func (c *Config) SetShell(shell string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Shell = shell
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetSocketDir returns the daemon socket directory
func (c *Config) GetSocketDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.SocketDir
}

// GetLogDir returns the daemon log directory
func (c *Config) GetLogDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogDir
}

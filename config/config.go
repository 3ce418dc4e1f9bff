package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type UserConfig struct {
	DefaultModel       string         `toml:"default_model"`
	CredentialSecurity SecurityMethod `toml:"credential_security"`
	SSHKeyPath         string         `toml:"ssh_key_path,omitempty"`
}

type Config struct {
	DataDirectory      string
	DefaultModel       string
	CredentialSecurity SecurityMethod
	SSHKeyPath         string

	// CredentialStore holds provider secrets. Loaded by LoadCredentials.
	CredentialStore *CredentialStore
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) Model() string {
	return c.DefaultModel
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("POASSIST_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if model := os.Getenv("POASSIST_MODEL"); model != "" {
		c.DefaultModel = model
	}
}

func CheckDebug() bool {
	debug := os.Getenv("POASSIST_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log may contain prompt fragments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (POASSIST_DEBUG=%s) ===", os.Getenv("POASSIST_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads settings.toml and the user config.toml from the data directory,
// creating both from templates on first run. Environment variables override
// the file values.
func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:      GetDefaultDataDir(),
		DefaultModel:       "claude-v2",
		CredentialSecurity: SecurityPlainText,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	// Data dir can come from the environment, so apply overrides before
	// reading the user config that lives inside it.
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if userCfg.DefaultModel != "" {
		cfg.DefaultModel = userCfg.DefaultModel
	}
	if userCfg.CredentialSecurity != "" {
		cfg.CredentialSecurity = userCfg.CredentialSecurity
	}
	cfg.SSHKeyPath = ExpandPath(userCfg.SSHKeyPath)

	// Env wins over config.toml for the model too
	if model := os.Getenv("POASSIST_MODEL"); model != "" {
		cfg.DefaultModel = model
	}

	return cfg, nil
}

// LoadCredentials opens the credential store configured for this data dir.
func (c *Config) LoadCredentials(passphrase string) error {
	store := NewCredentialStore(c.CredentialSecurity, c.SSHKeyPath)
	if passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	if err := store.Load(c.DataDir()); err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	c.CredentialStore = store
	return nil
}

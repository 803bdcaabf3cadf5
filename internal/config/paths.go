package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultDataDir   = ".erflow"
	ConfigFileName   = "config.toml"
	GlobalConfigDir  = ".config/erflow"
	UserDataDir      = ".local/share/erflow"
	SQLiteFileName   = "erflow.db"
	ExportFilePrefix = "erflow-cards-"
)

// Environment overrides, read after the optional .env file is loaded.
const (
	EnvConfigPath = "ERFLOW_CONFIG"
	EnvDataDir    = "ERFLOW_DATA_DIR"
	EnvStorage    = "ERFLOW_STORAGE"
	EnvLogLevel   = "ERFLOW_LOG_LEVEL"
)

// Paths provides path resolution for erflow data files.
type Paths struct {
	dataDir string
}

// NewPaths creates a new Paths resolver rooted at dataDir.
func NewPaths(dataDir string) *Paths {
	return &Paths{dataDir: dataDir}
}

// DataDir returns the directory holding the file backend's key files.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// KeyPath returns the file path for a storage key.
func (p *Paths) KeyPath(key string) string {
	return filepath.Join(p.dataDir, key)
}

// SQLitePath returns the default sqlite database path.
func (p *Paths) SQLitePath() string {
	return filepath.Join(p.dataDir, SQLiteFileName)
}

// GlobalConfigPath returns the path to the global config file.
// ERFLOW_CONFIG takes precedence over ~/.config/erflow/config.toml.
func GlobalConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}

// GlobalConfigDirPath returns the directory for global config.
func GlobalConfigDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir)
}

// UserDataDirPath returns the per-user data directory used when no
// project-local .erflow directory is found.
func UserDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, UserDataDir)
}

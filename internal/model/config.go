package model

// Storage backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// GlobalConfig represents the user's erflow configuration.
// Stored at ~/.config/erflow/config.toml
// Schema changes require a version bump; see internal/version/version.go.
type GlobalConfig struct {
	ErflowSchema string        `toml:"erflow_schema"`
	Editor       string        `toml:"editor,omitempty"`
	Storage      StorageConfig `toml:"storage,omitempty"`
	Server       ServerConfig  `toml:"server,omitempty"`
	Export       ExportConfig  `toml:"export,omitempty"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend    string   `toml:"backend,omitempty"`     // file (default), sqlite, s3, memory
	DataDir    string   `toml:"data_dir,omitempty"`    // file backend directory
	SQLitePath string   `toml:"sqlite_path,omitempty"` // sqlite backend database file
	S3         S3Config `toml:"s3,omitempty"`
}

// S3Config holds settings for the S3 backend. Works with MinIO and other
// S3-compatible services when UsePathStyle is set.
type S3Config struct {
	Endpoint     string `toml:"endpoint,omitempty"`
	Region       string `toml:"region,omitempty"`
	Bucket       string `toml:"bucket,omitempty"`
	Prefix       string `toml:"prefix,omitempty"`
	AccessKey    string `toml:"access_key,omitempty"`
	SecretKey    string `toml:"secret_key,omitempty"`
	UsePathStyle bool   `toml:"use_path_style,omitempty"`
}

type ServerConfig struct {
	Port int `toml:"port,omitempty"`
}

type ExportConfig struct {
	Dir string `toml:"dir,omitempty"` // Where `erflow export` writes files; cwd when empty
}

// DefaultPort is used by `erflow serve` when neither flag nor config set one.
const DefaultPort = 3000

// BackendName returns the configured backend, defaulting to file.
func (g *GlobalConfig) BackendName() string {
	if g == nil || g.Storage.Backend == "" {
		return BackendFile
	}
	return g.Storage.Backend
}

// ServerPort returns the configured port, defaulting to DefaultPort.
func (g *GlobalConfig) ServerPort() int {
	if g == nil || g.Server.Port <= 0 {
		return DefaultPort
	}
	return g.Server.Port
}

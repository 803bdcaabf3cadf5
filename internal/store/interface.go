package store

import "github.com/emilianobruni/erflow/internal/model"

// Fixed storage keys.
const (
	KeyCards    = "draggable-cards"
	KeyDarkMode = "dark-mode"
)

// KeyValueStore persists string values under fixed keys.
// Implementations must treat removal of an absent key as success.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// GlobalStore handles global config persistence.
type GlobalStore interface {
	Load() (*model.GlobalConfig, error)
	Save(config *model.GlobalConfig) error
	EnsureExists() error
}

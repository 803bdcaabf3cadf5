package store

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/config"
	kanerr "github.com/emilianobruni/erflow/internal/errors"
	"github.com/emilianobruni/erflow/internal/model"
)

// Open returns the key-value backend selected by cfg.
// $ERFLOW_STORAGE overrides storage.backend.
func Open(cfg *model.GlobalConfig, paths *config.Paths) (KeyValueStore, error) {
	backend := cfg.BackendName()
	if env := os.Getenv(config.EnvStorage); env != "" {
		backend = env
	}
	log.Debugf("Opening %s storage", backend)

	switch backend {
	case model.BackendFile:
		return NewFileStore(paths), nil

	case model.BackendMemory:
		return NewMemoryStore(), nil

	case model.BackendSQLite:
		dbPath := paths.SQLitePath()
		if cfg != nil && cfg.Storage.SQLitePath != "" {
			dbPath = cfg.Storage.SQLitePath
		}
		s, err := NewSQLiteStore(dbPath)
		if err != nil {
			return nil, kanerr.Environment("sqlite storage", err)
		}
		return s, nil

	case model.BackendS3:
		var s3cfg model.S3Config
		if cfg != nil {
			s3cfg = cfg.Storage.S3
		}
		s, err := NewS3Store(s3cfg)
		if err != nil {
			return nil, kanerr.Environment("s3 storage", err)
		}
		return s, nil
	}

	return nil, kanerr.InvalidField("storage.backend", fmt.Sprintf("unknown backend %q (want file, sqlite, s3 or memory)", backend))
}

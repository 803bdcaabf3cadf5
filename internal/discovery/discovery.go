package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/model"
)

// Source says where a data directory came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceProject Source = "project"
	SourceUser    Source = "user"
)

// Result contains the resolved data directory.
type Result struct {
	DataDir string // Absolute path to the directory holding key files
	Source  Source
}

// ResolveDataDir finds the data directory starting from cwd.
// Priority:
// 1. $ERFLOW_DATA_DIR
// 2. storage.data_dir in global config
// 3. Nearest .erflow/ directory walking up from cwd
// 4. ~/.local/share/erflow
func ResolveDataDir(globalCfg *model.GlobalConfig) (*Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolveDataDirFrom(cwd, globalCfg)
}

// ResolveDataDirFrom resolves the data directory starting from a given directory.
func ResolveDataDirFrom(startDir string, globalCfg *model.GlobalConfig) (*Result, error) {
	if dir := os.Getenv(config.EnvDataDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", config.EnvDataDir, err)
		}
		return &Result{DataDir: abs, Source: SourceEnv}, nil
	}

	if globalCfg != nil && globalCfg.Storage.DataDir != "" {
		abs, err := filepath.Abs(globalCfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve storage.data_dir: %w", err)
		}
		return &Result{DataDir: abs, Source: SourceConfig}, nil
	}

	local, err := FindProjectDataDir(startDir)
	if err != nil {
		return nil, err
	}
	if local != "" {
		return &Result{DataDir: local, Source: SourceProject}, nil
	}

	return &Result{DataDir: config.UserDataDirPath(), Source: SourceUser}, nil
}

// FindProjectDataDir walks up from startDir looking for a .erflow directory.
// Returns "" if none is found.
func FindProjectDataDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, config.DefaultDataDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		// Move up to parent
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

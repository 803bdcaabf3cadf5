package service

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/store"
)

// RepoRootFinder locates the enclosing repository root.
type RepoRootFinder interface {
	GetRepoRoot() (string, error)
}

// InitResult describes what Initialize did.
type InitResult struct {
	DataDir      string `json:"data_dir"`
	Created      bool   `json:"created"`
	InRepository bool   `json:"in_repository"`
	GlobalConfig string `json:"global_config,omitempty"`
}

// InitService creates project-local data directories.
type InitService struct {
	repo        RepoRootFinder
	globalStore store.GlobalStore
}

// NewInitService creates a new init service.
func NewInitService(repo RepoRootFinder, globalStore store.GlobalStore) *InitService {
	return &InitService{
		repo:        repo,
		globalStore: globalStore,
	}
}

// Initialize creates a .erflow directory at the repository root, or in
// workDir when workDir is not inside a repository. Running it twice is harmless.
func (s *InitService) Initialize(workDir string) (*InitResult, error) {
	root := workDir
	inRepo := false
	if repoRoot, err := s.repo.GetRepoRoot(); err == nil {
		root, inRepo = repoRoot, true
	} else {
		log.Debugf("No repository found, initializing in %s", workDir)
	}

	dataDir := filepath.Join(root, config.DefaultDataDir)
	result := &InitResult{DataDir: dataDir, InRepository: inRepo}

	if info, err := os.Stat(dataDir); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("%s exists and is not a directory", dataDir)
		}
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		result.Created = true
	}

	if s.globalStore != nil {
		if err := s.globalStore.EnsureExists(); err != nil {
			return nil, fmt.Errorf("failed to create global config: %w", err)
		}
		if p, ok := s.globalStore.(interface{ Path() string }); ok {
			result.GlobalConfig = p.Path()
		}
	}

	return result, nil
}

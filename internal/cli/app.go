package cli

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/clipboard"
	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/discovery"
	"github.com/emilianobruni/erflow/internal/editor"
	"github.com/emilianobruni/erflow/internal/git"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/prompt"
	"github.com/emilianobruni/erflow/internal/resolver"
	"github.com/emilianobruni/erflow/internal/service"
	"github.com/emilianobruni/erflow/internal/store"
)

// App holds all the dependencies for the CLI.
type App struct {
	GlobalStore   store.GlobalStore
	GlobalConfig  *model.GlobalConfig
	DataDir       *discovery.Result
	Paths         *config.Paths
	Store         store.KeyValueStore
	Prompter      prompt.Prompter
	Editor        *editor.Editor
	Clipboard     service.ClipboardReader
	BoardService  *service.BoardService
	DoctorService *service.DoctorService
	CardResolver  *resolver.CardResolver
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	app, err := openStorage()
	if err != nil {
		return nil, err
	}

	board, err := service.NewBoardService(app.Store)
	if err != nil {
		app.Close()
		return nil, err
	}

	if interactive {
		app.Prompter = prompt.NewHuhPrompter()
	} else {
		app.Prompter = &prompt.NoopPrompter{}
	}
	app.Editor = editor.NewEditor(app.GlobalConfig)
	app.Clipboard = clipboard.System{}
	app.BoardService = board
	app.CardResolver = resolver.NewCardResolver(board)
	return app, nil
}

// openStorage resolves config, data directory and backend without loading
// the board. Loading seeds over malformed stored cards, so doctor must
// inspect the store before that happens.
func openStorage() (*App, error) {
	globalStore := store.NewGlobalStore()

	// Load global config with warnings (don't silently ignore errors)
	globalCfg, err := globalStore.Load()
	if err != nil {
		PrintWarning("failed to load global config: %v", err)
		globalCfg = &model.GlobalConfig{}
	}

	dataDir, err := discovery.ResolveDataDir(globalCfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using data directory %s (from %s)", dataDir.DataDir, dataDir.Source)

	paths := config.NewPaths(dataDir.DataDir)
	kv, err := store.Open(globalCfg, paths)
	if err != nil {
		return nil, err
	}

	return &App{
		GlobalStore:   globalStore,
		GlobalConfig:  globalCfg,
		DataDir:       dataDir,
		Paths:         paths,
		Store:         kv,
		DoctorService: service.NewDoctorService(kv, globalStore.Path()),
	}, nil
}

// NewInitService builds the init service without opening storage, so
// init works even when the configured backend is unreachable.
func NewInitService() *service.InitService {
	return service.NewInitService(git.NewClient(""), store.NewGlobalStore())
}

// Close releases the storage backend.
func (a *App) Close() {
	closeStore(a.Store)
}

func closeStore(kv store.KeyValueStore) {
	if c, ok := kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warnf("Failed to close storage: %v", err)
		}
	}
}

// Fatal prints an error and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// mustApp is the common prologue of board commands.
func mustApp(interactive bool) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	return app
}

package api

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/store"
)

// FileChangeType indicates what happened to a key file.
type FileChangeType string

const (
	FileChangeCreated  FileChangeType = "created"
	FileChangeModified FileChangeType = "modified"
	FileChangeDeleted  FileChangeType = "deleted"
)

// FileChange is one settled change to a storage key file.
type FileChange struct {
	Type FileChangeType `json:"type"`
	Key  string         `json:"key"`  // draggable-cards or dark-mode
	Path string         `json:"path"` // File name inside the data directory
}

// FileWatcherSubscriber receives file change notifications.
type FileWatcherSubscriber interface {
	OnFileChange(change FileChange)
}

// settleDelay coalesces the burst of events one atomic write produces.
const settleDelay = 100 * time.Millisecond

var errWatcherStopped = errors.New("file watcher cannot be restarted after stop")

type watcherState int

const (
	watcherIdle watcherState = iota
	watcherRunning
	watcherStopped
)

// FileWatcher reports edits made to the file backend by other processes,
// such as a second CLI invocation or a text editor.
type FileWatcher struct {
	fs      *fsnotify.Watcher
	dataDir string

	mu    sync.Mutex
	state watcherState
	subs  []FileWatcherSubscriber

	// pending holds one settle timer per storage key
	pending map[string]*time.Timer
	done    chan struct{}
}

// NewFileWatcher creates a watcher for dataDir. Call Start to begin.
func NewFileWatcher(dataDir string) (*FileWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		fs:      fs,
		dataDir: filepath.Clean(dataDir),
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber. Subscribers are called in registration order.
func (fw *FileWatcher) Subscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	fw.subs = append(fw.subs, sub)
	fw.mu.Unlock()
}

// Start begins watching. Starting twice is a no-op.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	switch fw.state {
	case watcherRunning:
		fw.mu.Unlock()
		return nil
	case watcherStopped:
		fw.mu.Unlock()
		return errWatcherStopped
	}
	fw.state = watcherRunning
	fw.mu.Unlock()

	if err := fw.fs.Add(fw.dataDir); err != nil {
		fw.mu.Lock()
		if fw.state == watcherRunning {
			fw.state = watcherIdle
		}
		fw.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", fw.dataDir, err)
	}
	go fw.loop()
	return nil
}

// Stop ends watching and drops any change still settling.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.state == watcherStopped {
		fw.mu.Unlock()
		return nil
	}
	wasRunning := fw.state == watcherRunning
	fw.state = watcherStopped
	for key, timer := range fw.pending {
		timer.Stop()
		delete(fw.pending, key)
	}
	fw.mu.Unlock()

	if wasRunning {
		close(fw.done)
	}
	if fw.fs == nil {
		return nil
	}
	return fw.fs.Close()
}

func (fw *FileWatcher) loop() {
	for {
		select {
		case <-fw.done:
			return
		case err, ok := <-fw.fs.Errors:
			if !ok {
				return
			}
			log.Warnf("File watcher error: %v", err)
		case event, ok := <-fw.fs.Events:
			if !ok {
				return
			}
			if change, ok := classifyChange(fw.dataDir, event); ok {
				fw.settle(change)
			}
		}
	}
}

// settle restarts the key's timer so only the last change of a burst is
// delivered.
func (fw *FileWatcher) settle(change FileChange) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.state != watcherRunning {
		return
	}
	if timer, ok := fw.pending[change.Key]; ok {
		timer.Stop()
	}
	fw.pending[change.Key] = time.AfterFunc(settleDelay, func() {
		fw.deliver(change)
	})
}

func (fw *FileWatcher) deliver(change FileChange) {
	fw.mu.Lock()
	if fw.state != watcherRunning {
		fw.mu.Unlock()
		return
	}
	delete(fw.pending, change.Key)
	subs := append([]FileWatcherSubscriber(nil), fw.subs...)
	fw.mu.Unlock()

	log.Debugf("Storage file %s %s", change.Key, change.Type)
	for _, sub := range subs {
		sub.OnFileChange(change)
	}
}

// classifyChange maps a raw event to a key-file change. Events for temp
// files, other files, and attribute-only changes are dropped.
func classifyChange(dataDir string, event fsnotify.Event) (FileChange, bool) {
	key, ok := store.IsKeyFile(dataDir, event.Name)
	if !ok {
		return FileChange{}, false
	}

	var kind FileChangeType
	switch {
	case event.Has(fsnotify.Create):
		kind = FileChangeCreated
	case event.Has(fsnotify.Write):
		kind = FileChangeModified
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		kind = FileChangeDeleted
	default:
		return FileChange{}, false
	}
	return FileChange{Type: kind, Key: key, Path: filepath.Base(event.Name)}, true
}

// BoardReloader re-reads board state whenever a key file changes.
type BoardReloader struct {
	board interface{ Reload() error }
}

// NewBoardReloader creates a subscriber that reloads board on every change.
func NewBoardReloader(board interface{ Reload() error }) *BoardReloader {
	return &BoardReloader{board: board}
}

// OnFileChange implements FileWatcherSubscriber.
func (r *BoardReloader) OnFileChange(change FileChange) {
	if err := r.board.Reload(); err != nil {
		log.Warnf("Failed to reload board after %s %s: %v", change.Key, change.Type, err)
	}
}

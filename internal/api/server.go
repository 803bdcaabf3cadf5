package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/service"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	Port int
	// WatchDir is the file backend's data directory. Empty disables
	// watching, e.g. for the sqlite, s3 and memory backends.
	WatchDir       string
	AllowedOrigins []string
}

// Server wraps the HTTP server for the board API.
type Server struct {
	httpServer *http.Server
	watcher    *FileWatcher
	wsHub      *WebSocketHub
}

// NewServer creates a new server serving board through handler.
func NewServer(handler *Handler, board *service.BoardService, opts ServerOptions) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub()
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)
	wsHub.SetSnapshot(func() any { return SnapshotOf(board) })
	board.Subscribe(wsHub)

	var watcher *FileWatcher
	if opts.WatchDir != "" {
		var err error
		watcher, err = NewFileWatcher(opts.WatchDir)
		if err != nil {
			log.Warnf("Failed to create file watcher: %v", err)
		} else {
			// Reload first so clients get cards_changed after file_change
			watcher.Subscribe(NewBoardReloader(board))
			watcher.Subscribe(wsHub)
		}
	}

	wrapped := Logging(Cors(opts.AllowedOrigins)(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		watcher: watcher,
		wsHub:   wsHub,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. Blocks until shutdown.
func (s *Server) Serve(ln net.Listener) error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Warnf("Failed to start file watcher: %v", err)
		} else {
			log.Infof("Watching %s for external changes", s.watcher.dataDir)
		}
	}

	err := s.httpServer.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			log.Warnf("Failed to stop file watcher: %v", err)
		}
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return s.wsHub.ClientCount()
}

package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amterp/ra"
	log "github.com/sirupsen/logrus"

	"github.com/emilianobruni/erflow/internal/api"
	"github.com/emilianobruni/erflow/internal/config"
	"github.com/emilianobruni/erflow/internal/model"
	"github.com/emilianobruni/erflow/internal/store"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the HTTP API and websocket change feed")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (default: server.port from config, else 3000; tries the next ports if in use)").
		Register(cmd)

	ctx.ServeEphemeral, _ = ra.NewBool("ephemeral").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Keep cards in memory only; nothing is saved").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, ephemeral bool) {
	if ephemeral {
		os.Setenv(config.EnvStorage, model.BackendMemory)
	}

	app := mustApp(false)
	defer app.Close()

	if port <= 0 {
		port = app.GlobalConfig.ServerPort()
	}

	// Only the file backend has files to watch
	var watchDir string
	if _, ok := app.Store.(*store.FileStore); ok {
		watchDir = app.Paths.DataDir()
		if err := os.MkdirAll(watchDir, 0755); err != nil {
			log.Warnf("Cannot create %s, live reload disabled: %v", watchDir, err)
			watchDir = ""
		}
	}

	ln, actualPort, err := listenFrom(port)
	if err != nil {
		Fatal(err)
	}

	handler := api.NewHandler(app.BoardService, app.Clipboard)
	server := api.NewServer(handler, app.BoardService, api.ServerOptions{
		Port:     actualPort,
		WatchDir: watchDir,
	})

	fmt.Printf("erflow API running at %s\n", RenderURL(fmt.Sprintf("http://localhost:%d/api/v1", actualPort)))
	fmt.Println(RenderMuted(fmt.Sprintf("Storage: %s (%s)", storageName(app), app.DataDir.DataDir)))
	fmt.Println("Press Ctrl+C to stop")

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			Fatal(err)
		}
	case sig := <-sigCh:
		log.Infof("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warnf("Shutdown: %v", err)
		}
		<-done
	}
}

// listenFrom tries ports starting from startPort until one is free.
func listenFrom(startPort int) (net.Listener, int, error) {
	const maxAttempts = 100
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, port, nil
		}
		lastErr = err
	}
	return nil, 0, fmt.Errorf("no free port in %d-%d: %w", startPort, startPort+maxAttempts-1, lastErr)
}

func storageName(app *App) string {
	if env := os.Getenv(config.EnvStorage); env != "" {
		return env
	}
	return app.GlobalConfig.BackendName()
}

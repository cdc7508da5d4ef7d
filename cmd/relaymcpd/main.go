// Command relaymcpd runs the relaymcp server: it loads configuration,
// builds the initial tool registry from the configured plugin directories,
// serves WebSocket connections, and hot-reloads the registry when a tool
// plugin changes on disk.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relaymcp/relaymcp"
	"github.com/relaymcp/relaymcp/config"
	"github.com/relaymcp/relaymcp/loader"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	registry, err := loader.Load(cfg.ToolRepos)
	if err != nil {
		logger.Error("failed to build initial tool registry", "error", err)
		return 1
	}
	logger.Info("initial registry built", "tool_count", registry.Len(), "repos", cfg.ToolRepos)

	srv := relaymcp.NewServer(registry, relaymcp.WithLogger(logger))

	var watcher *loader.Watcher
	if len(cfg.ToolRepos) > 0 {
		watcher, err = loader.NewWatcher(cfg.ToolRepos, func() {
			reloaded, err := loader.Load(cfg.ToolRepos)
			if err != nil {
				logger.Error("hot reload failed, keeping previous registry", "error", err)
				return
			}
			srv.SetRegistry(reloaded)
		}, logger)
		if err != nil {
			logger.Error("failed to start tool directory watcher", "error", err)
			return 1
		}
		watcher.Start()
		defer watcher.Stop()
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)

	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr())
		serveErr <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			return 1
		}
		return 0

	case <-sigCh:
		logger.Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		srv.Shutdown(shutdownTimeout)
		_ = httpServer.Shutdown(ctx)
		return 130
	}
}

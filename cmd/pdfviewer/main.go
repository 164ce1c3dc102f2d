package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfviewer/internal/config"
	"pdfviewer/internal/document"
	"pdfviewer/internal/http/server"
	log "pdfviewer/internal/infra/logging"
)

func main() {
	cfg := config.Load()

	if err := ensureLogDir(cfg.Logger.File); err != nil {
		log.Error("Failed to create log directory", "error", err)
	}
	log.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)

	loc := document.NewLocator(cfg)
	if err := loc.Check(); err != nil {
		// Not fatal: the fetch route answers 404 until the file shows up.
		log.Warn("Document not readable at startup", "error", err)
	}

	app := server.New(server.Deps{Config: cfg, Locator: loc})

	idleConnsClosed := make(chan struct{})
	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// ensureLogDir creates the parent directory of the log file if needed.
func ensureLogDir(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg config.Config, idleConnsClosed chan struct{}) {
	go func() {
		log.Info("Server listening", "addr", cfg.Addr(), "document_route", cfg.Document.Route, "origins", cfg.CORS.AllowOrigins)
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint

	log.Warn("Shutdown signal received, closing server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	log.Info("Server stopped cleanly")
}

package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"pdfviewer/internal/config"
	"pdfviewer/internal/document"
	"pdfviewer/internal/http/handlers"
	"pdfviewer/internal/http/middleware"
	log "pdfviewer/internal/infra/logging"
)

// Deps bundles everything the app needs. Locator may be nil, in which case
// one is built from Config.
type Deps struct {
	Config  config.Config
	Locator *document.Locator
}

// New creates and configures a new Fiber app instance.
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	loc := deps.Locator
	if loc == nil {
		loc = document.NewLocator(cfg)
	}

	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	middleware.Register(app, cfg, loc.Check)
	RegisterRoutes(app, cfg, loc)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

// RegisterRoutes mounts the status and document routes.
func RegisterRoutes(app *fiber.App, cfg config.Config, loc *document.Locator) {
	svc := handlers.NewDocumentService(loc)

	app.Get("/", handlers.StatusHandler(cfg.Status.Message))
	app.Get(cfg.Document.Route, svc.HandleDocument)

	if cfg.Server.EnableMonitor {
		app.Get("/ops/monitor", monitor.New(monitor.Config{Title: "PDF Viewer Backend"}))
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	log.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	"pdfviewer/internal/config"
	log "pdfviewer/internal/infra/logging"
)

// ReadinessProbe reports whether the service can do useful work.
type ReadinessProbe func() error

// Register attaches global middleware to the app. CORS sits ahead of
// everything that can answer a request, so probes, limiter replies, errors
// and 404s all carry the same cross-origin headers.
func Register(app *fiber.App, cfg config.Config, ready ReadinessProbe) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	app.Use(CORS(cfg))

	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if ready == nil {
				return true
			}
			if err := ready(); err != nil {
				log.Warn("Readiness probe failed", "error", err)
				return false
			}
			return true
		},
	}))

	if cfg.RateLimiter.UserLimit > 0 {
		app.Use(UserRateLimit(cfg, NewRateLimitStore(cfg)))
	}

	app.Use(func(c *fiber.Ctx) error {
		log.Debug("Incoming request", "method", c.Method(), "path", c.Path(), "origin", c.Get(fiber.HeaderOrigin), "request_id", c.GetRespHeader(fiber.HeaderXRequestID))
		return c.Next()
	})
}

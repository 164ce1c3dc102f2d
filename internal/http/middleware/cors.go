package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"pdfviewer/internal/config"
)

// CORS applies the origin allow-list to every request. Membership is exact,
// case-sensitive string equality. Only allowed origins reach fiber's cors
// middleware, which supplies Vary and the credentialed preflight answer. On
// top of it, allowed simple responses also carry the methods/headers grant,
// the request's own Origin is echoed unchanged, and every OPTIONS request is
// answered here so no route handler ever runs for it.
func CORS(cfg config.Config) fiber.Handler {
	allowed := make(map[string]struct{}, len(cfg.CORS.AllowOrigins))
	origins := make([]string, 0, len(cfg.CORS.AllowOrigins))
	for _, o := range cfg.CORS.AllowOrigins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		origins = append(origins, o)
		allowed[o] = struct{}{}
	}

	base := cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: cfg.CORS.AllowCredentials,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
	})

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		preflight := c.Method() == fiber.MethodOptions

		if origin != "" {
			if _, ok := allowed[origin]; !ok {
				// No grant; the browser rejects the response.
				c.Vary(fiber.HeaderOrigin)
				if preflight {
					return c.SendStatus(fiber.StatusNoContent)
				}
				return c.Next()
			}
		}

		if preflight && (origin == "" || c.Get(fiber.HeaderAccessControlRequestMethod) == "") {
			// Outside fiber's notion of a preflight; still never routed.
			if origin != "" {
				grant(c, cfg, origin)
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		if !preflight && origin != "" {
			if cfg.CORS.AllowMethods != "" {
				c.Set(fiber.HeaderAccessControlAllowMethods, cfg.CORS.AllowMethods)
			}
			if cfg.CORS.AllowHeaders != "" {
				c.Set(fiber.HeaderAccessControlAllowHeaders, cfg.CORS.AllowHeaders)
			}
		}

		err := base(c)
		if origin != "" {
			// fiber echoes a lowercased origin.
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		}
		return err
	}
}

func grant(c *fiber.Ctx, cfg config.Config, origin string) {
	c.Vary(fiber.HeaderOrigin)
	c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
	if cfg.CORS.AllowCredentials {
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	}
	if cfg.CORS.AllowMethods != "" {
		c.Set(fiber.HeaderAccessControlAllowMethods, cfg.CORS.AllowMethods)
	}
	if cfg.CORS.AllowHeaders != "" {
		c.Set(fiber.HeaderAccessControlAllowHeaders, cfg.CORS.AllowHeaders)
	}
}

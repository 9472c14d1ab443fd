package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses unless the handler
// already did. Anything derived from the live session is never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"

		case path == "/v1/campuses" || path == "/v1/categories":
			ttl = "public, max-age=86400" // fixed at build time

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/docs" || path == "/docs/openapi.yaml":
			ttl = "public, max-age=3600"

		case path == "/v1/places":
			// Depends on the session's selection unless both filters are given.
			if c.Query("campus") != "" && c.Query("category") != "" {
				ttl = "public, max-age=3600"
			} else {
				ttl = "no-store"
			}

		case strings.HasPrefix(path, "/v1/places/") && !strings.Contains(strings.TrimPrefix(path, "/v1/places/"), "/"):
			ttl = "public, max-age=3600" // single catalog entry

		case strings.HasPrefix(path, "/v1/"):
			ttl = "no-store" // state and estimates
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/ccsustmap/campusmap/internal/pkg/metrics"
)

const requestTimeout = 5 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Server spans
	app.Use(TracingMiddleware())

	// Access logs
	app.Use(AccessLogMiddleware())

	// Rate limiting: 600 requests per minute per IP. Fix uploads arrive at ~1 Hz.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	v1 := app.Group("/v1")
	v1.Get("/campuses", ListCampusesHandler())
	v1.Get("/categories", ListCategoriesHandler())

	v1.Get("/state", withTimeout(GetStateHandler(deps)))
	v1.Put("/state/campus", withTimeout(SelectCampusHandler(deps)))
	v1.Put("/state/category", withTimeout(SelectCategoryHandler(deps)))

	v1.Get("/places", withTimeout(ListPlacesHandler(deps)))
	v1.Get("/places/:id", GetPlaceHandler(deps))
	v1.Post("/places/:id/select", withTimeout(SelectPlaceHandler(deps)))
	v1.Get("/places/:id/estimate", withTimeout(EstimateHandler(deps)))
	v1.Post("/places/:id/navigate", withTimeout(NavigateHandler(deps)))

	v1.Post("/location/fixes", withTimeout(PostFixesHandler(deps)))
	v1.Post("/location/failures", withTimeout(PostFailureHandler(deps)))

	// GraphQL
	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}

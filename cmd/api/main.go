package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/ccsustmap/campusmap/internal/adapters/catalog"
	"github.com/ccsustmap/campusmap/internal/adapters/http"
	natsadapter "github.com/ccsustmap/campusmap/internal/adapters/nats"
	"github.com/ccsustmap/campusmap/internal/adapters/navigation"
	"github.com/ccsustmap/campusmap/internal/adapters/postgres"
	"github.com/ccsustmap/campusmap/internal/adapters/surface"
	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/ports"
	"github.com/ccsustmap/campusmap/internal/core/usecases"
	"github.com/ccsustmap/campusmap/internal/pkg/config"
	"github.com/ccsustmap/campusmap/internal/pkg/logging"
	"github.com/ccsustmap/campusmap/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("campusmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{Version: version, LinkBase: cfg.Navigation.LinkBase}

	// Catalog
	var places *catalog.Catalog
	switch cfg.Catalog.Source {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()

		records, err := postgres.NewPlaceRepo(db.Pool).LoadAll(ctx)
		if err != nil {
			log.Fatalf("load places: %v", err)
		}
		if places, err = catalog.New(records); err != nil {
			log.Fatalf("catalog: %v", err)
		}
		deps.DB = db
	default:
		places = catalog.Builtin()
	}
	deps.Catalog = places
	slog.Info("catalog loaded", "source", cfg.Catalog.Source, "places", places.Len())

	// NATS
	var (
		conn      *nats.Conn
		publisher *natsadapter.Publisher
	)
	if cfg.NATS.Enabled {
		conn, err = natsadapter.Connect(cfg.NATS.URL, cfg.Telemetry.ServiceName, logger)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer conn.Drain()
			if publisher, err = natsadapter.NewPublisher(conn); err != nil {
				slog.Warn("jetstream unavailable", "error", err)
			} else {
				deps.Instance = publisher.Instance()
			}
			deps.NATS = conn
		}
	}

	// Surfaces
	hub := surface.NewHub(logger)
	deps.Hub = hub
	surfaces := surface.Fanout{hub}
	if publisher != nil {
		surfaces = append(surfaces, publisher)
	} else {
		surfaces = append(surfaces, surface.NewLogging(logger))
	}

	// Navigation
	var bus ports.NavigationLauncher
	if publisher != nil {
		bus = publisher
	}
	link := navigation.NewLinkLauncher(cfg.Navigation.LinkBase, hub.NavigationLink, logger)
	launcher, err := navigation.Select(cfg.Navigation.Launcher, bus, link, logger)
	if err != nil {
		log.Fatalf("navigation: %v", err)
	}
	deps.Launcher = launcher.Name()

	// Session
	campus, err := domain.ParseCampus(cfg.Session.DefaultCampus)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	state := domain.NewViewState(campus)
	selection := usecases.NewSelectionController(state, places, surfaces, launcher, usecases.SelectionOptions{
		Locale:                   usecases.Locale(cfg.Session.Locale),
		ClearPlaceOnCampusChange: cfg.Session.ClearPlaceOnCampusChange,
		LaunchTimeout:            time.Duration(cfg.Navigation.LaunchTimeout) * time.Second,
	}, logger)
	tracker := usecases.NewLocationTracker(state, surfaces, logger)
	session := usecases.NewSession(selection, tracker, cfg.Session.QueueSize, logger)
	deps.Session = session

	sessionDone := make(chan struct{})
	go func() {
		defer close(sessionDone)
		if err := session.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("session stopped", "error", err)
		}
	}()

	if conn != nil {
		if err := session.Attach(ctx, natsadapter.NewPositionSource(conn, logger)); err != nil {
			slog.Warn("position source unavailable", "error", err)
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Campus Map API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "launcher", deps.Launcher)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	cancel()
	<-sessionDone
	selection.WaitHandoffs()
	slog.Info("server stopped")
}

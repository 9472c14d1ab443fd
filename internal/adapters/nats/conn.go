package natsadapter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects used on the bus.
const (
	SubjectFix        = "campus.location.fix"
	SubjectFixError   = "campus.location.error"
	SubjectCamera     = "campus.camera.transition"
	SubjectNavigation = "campus.navigation.launch"
)

// NavigationStream retains navigation hand-offs until a launcher consumes them.
const NavigationStream = "CAMPUS_NAVIGATION"

// Connect opens a NATS connection that reconnects forever.
func Connect(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Info("nats connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// EnsureNavigationStream creates or updates the JetStream stream backing
// navigation hand-offs.
func EnsureNavigationStream(js nats.JetStreamContext) error {
	cfg := &nats.StreamConfig{
		Name:      NavigationStream,
		Subjects:  []string{SubjectNavigation},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    5 * time.Minute,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update.
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

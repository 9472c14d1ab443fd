package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	natsadapter "github.com/ccsustmap/campusmap/internal/adapters/nats"
	"github.com/ccsustmap/campusmap/internal/pkg/config"
	"github.com/ccsustmap/campusmap/internal/pkg/logging"
)

// ---------------------------------------------------------------------------
// Recording format
// ---------------------------------------------------------------------------

// Step is one line of a recording: either a fix or a failure message,
// published after waiting DelayMS.
type Step struct {
	Fix     *natsadapter.FixMessage `json:"fix,omitempty"`
	Failure string                  `json:"failure,omitempty"`
	DelayMS int                     `json:"delay_ms,omitempty"`
}

// ParseRecording reads a JSON-lines recording. Blank lines and lines
// starting with '#' are skipped.
func ParseRecording(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Bytes()
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		var s Step
		if err := json.Unmarshal(text, &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if (s.Fix == nil) == (s.Failure == "") {
			return nil, fmt.Errorf("line %d: exactly one of fix or failure is required", line)
		}
		if s.Fix != nil {
			if _, err := s.Fix.Fix(); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		steps = append(steps, s)
	}
	return steps, sc.Err()
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: fixreplay <recording.jsonl> [loops]")
	}

	cfg, err := config.Load("campusmap-fixreplay")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatalf("open recording: %v", err)
	}
	steps, err := ParseRecording(f)
	f.Close()
	if err != nil {
		log.Fatalf("parse recording: %v", err)
	}

	loops := 1
	if len(os.Args) > 2 {
		if _, err := fmt.Sscanf(os.Args[2], "%d", &loops); err != nil || loops < 1 {
			log.Fatalf("loops must be a positive integer, got %q", os.Args[2])
		}
	}

	conn, err := natsadapter.Connect(cfg.NATS.URL, "campusmap-fixreplay", logger)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer conn.Drain()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("replaying", "steps", len(steps), "loops", loops, "url", cfg.NATS.URL)
	for i := 0; i < loops; i++ {
		if err := replay(ctx, conn, steps); err != nil {
			if ctx.Err() != nil {
				slog.Info("replay interrupted")
				return
			}
			log.Fatalf("replay: %v", err)
		}
	}
	if err := conn.Flush(); err != nil {
		slog.Warn("flush", "error", err)
	}
	slog.Info("replay complete")
}

func replay(ctx context.Context, conn *nats.Conn, steps []Step) error {
	for _, s := range steps {
		if s.DelayMS > 0 {
			select {
			case <-time.After(time.Duration(s.DelayMS) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if s.Failure != "" {
			if err := natsadapter.PublishFailure(conn, s.Failure); err != nil {
				return err
			}
			slog.Debug("failure published", "message", s.Failure)
			continue
		}

		fix, err := s.Fix.Fix()
		if err != nil {
			return err
		}
		if err := natsadapter.PublishFix(conn, fix); err != nil {
			return err
		}
		slog.Debug("fix published", "lat", fix.Location.Lat, "lon", fix.Location.Lon, "accuracy", fix.HorizontalAccuracy)
	}
	return nil
}

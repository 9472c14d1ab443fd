package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ccsustmap/campusmap/internal/core/domain"
	"github.com/ccsustmap/campusmap/internal/core/ports"
	"github.com/ccsustmap/campusmap/internal/pkg/metrics"
)

// ErrSessionClosed is returned by Do and EnqueueFix once the session loop has stopped.
var ErrSessionClosed = errors.New("session closed")

type event struct {
	ctx context.Context
	fn  func(ctx context.Context)
}

// Session serializes every view-state mutation onto a single loop goroutine.
// Position callbacks and request/response calls from any goroutine are queued
// and run one at a time, so the controller and tracker need no locking.
type Session struct {
	selection *SelectionController
	tracker   *LocationTracker
	events    chan event
	done      chan struct{}
	logger    *slog.Logger
}

// NewSession wires a session around one view state.
func NewSession(selection *SelectionController, tracker *LocationTracker, queueSize int, logger *slog.Logger) *Session {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Session{
		selection: selection,
		tracker:   tracker,
		events:    make(chan event, queueSize),
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Run processes queued events until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.logger.Info("session loop started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session loop stopped")
			return nil
		case ev := <-s.events:
			metrics.SessionQueueDepth.Set(float64(len(s.events)))
			ev.fn(ev.ctx)
		}
	}
}

func (s *Session) enqueue(ctx context.Context, fn func(ctx context.Context)) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- event{ctx: ctx, fn: fn}:
		metrics.SessionQueueDepth.Set(float64(len(s.events)))
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the session loop and waits for it to return.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, c *SelectionController) error) error {
	reply := make(chan error, 1)
	err := s.enqueue(ctx, func(ctx context.Context) {
		reply <- fn(ctx, s.selection)
	})
	if err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-s.done:
		// The loop may have run fn just before stopping.
		select {
		case err := <-reply:
			return err
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueFix queues a fix for the tracker and reports whether it was queued.
func (s *Session) EnqueueFix(ctx context.Context, fix domain.Fix) error {
	return s.enqueue(ctx, func(ctx context.Context) { s.tracker.FixReceived(ctx, fix) })
}

// FixReceived queues a fix for the tracker.
func (s *Session) FixReceived(ctx context.Context, fix domain.Fix) {
	if err := s.EnqueueFix(ctx, fix); err != nil {
		s.logger.Debug("fix not queued", "error", err)
	}
}

// AcquisitionFailed queues a failure report for the tracker.
func (s *Session) AcquisitionFailed(ctx context.Context, failure error) {
	if err := s.enqueue(ctx, func(ctx context.Context) { s.tracker.AcquisitionFailed(ctx, failure) }); err != nil {
		s.logger.Debug("failure not queued", "error", err)
	}
}

// Attach subscribes the session to a position source for its lifetime.
func (s *Session) Attach(ctx context.Context, src ports.PositionSource) error {
	return src.Subscribe(ctx, s)
}

var _ ports.PositionHandler = (*Session)(nil)
var _ ports.PositionHandler = (*LocationTracker)(nil)

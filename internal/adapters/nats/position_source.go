package natsadapter

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/ccsustmap/campusmap/internal/core/ports"
)

// PositionSource implements ports.PositionSource over core NATS. Fixes are
// ephemeral, so no durable consumer is used.
type PositionSource struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewPositionSource creates a source sharing conn.
func NewPositionSource(conn *nats.Conn, logger *slog.Logger) *PositionSource {
	return &PositionSource{conn: conn, logger: logger}
}

// Subscribe delivers fixes and failures to handler until ctx is cancelled.
func (s *PositionSource) Subscribe(ctx context.Context, handler ports.PositionHandler) error {
	fixSub, err := s.conn.Subscribe(SubjectFix, func(msg *nats.Msg) {
		HandleFix(ctx, msg.Data, handler, s.logger)
	})
	if err != nil {
		return err
	}

	errSub, err := s.conn.Subscribe(SubjectFixError, func(msg *nats.Msg) {
		handler.AcquisitionFailed(ctx, DecodeFailure(msg.Data))
	})
	if err != nil {
		_ = fixSub.Unsubscribe()
		return err
	}

	go func() {
		<-ctx.Done()
		_ = fixSub.Unsubscribe()
		_ = errSub.Unsubscribe()
	}()
	return nil
}

// HandleFix decodes a fix payload and forwards it. Malformed payloads are
// logged and dropped.
func HandleFix(ctx context.Context, data []byte, handler ports.PositionHandler, logger *slog.Logger) {
	fix, err := DecodeFix(data)
	if err != nil {
		logger.Warn("dropping malformed fix", "error", err)
		return
	}
	handler.FixReceived(ctx, fix)
}

var _ ports.PositionSource = (*PositionSource)(nil)

package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// Publisher implements ports.MapSurface over core NATS and
// ports.NavigationLauncher over JetStream.
type Publisher struct {
	conn     *nats.Conn
	js       nats.JetStreamContext
	instance string
}

// HeaderInstance carries the ID of the process that published a camera transition.
const HeaderInstance = "Campus-Instance"

// NewPublisher enables JetStream on conn and ensures the navigation stream.
func NewPublisher(conn *nats.Conn) (*Publisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := EnsureNavigationStream(js); err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, js: js, instance: uuid.NewString()}, nil
}

// Instance is the ID stamped on every camera transition this publisher sends.
func (p *Publisher) Instance() string { return p.instance }

// RequestCameraTransition publishes the transition for rendering surfaces.
// Delivery is best-effort; a newer transition supersedes an older one.
func (p *Publisher) RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error {
	msg, err := CameraMsg(p.instance, t)
	if err != nil {
		return err
	}
	return p.conn.PublishMsg(msg)
}

// CameraMsg builds the camera subject message stamped with instance.
func CameraMsg(instance string, t domain.CameraTransition) (*nats.Msg, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	msg := nats.NewMsg(SubjectCamera)
	msg.Data = data
	msg.Header.Set(HeaderInstance, instance)
	return msg, nil
}

// FromInstance reports whether msg was published by the given instance.
func FromInstance(msg *nats.Msg, instance string) bool {
	if instance == "" || msg.Header == nil {
		return false
	}
	return msg.Header.Get(HeaderInstance) == instance
}

// Name identifies the launcher in logs and metrics.
func (p *Publisher) Name() string { return "nats" }

// Launch hands the request to whichever navigation app consumes the stream.
func (p *Publisher) Launch(ctx context.Context, req domain.NavigationRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(SubjectNavigation, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish navigation: %w", err)
	}
	return nil
}

// PublishFix sends a fix on the position subject.
func PublishFix(conn *nats.Conn, fix domain.Fix) error {
	data, err := json.Marshal(NewFixMessage(fix))
	if err != nil {
		return err
	}
	return conn.Publish(SubjectFix, data)
}

// PublishFailure sends an acquisition failure on the error subject.
func PublishFailure(conn *nats.Conn, message string) error {
	data, err := json.Marshal(FailureMessage{Message: message})
	if err != nil {
		return err
	}
	return conn.Publish(SubjectFixError, data)
}

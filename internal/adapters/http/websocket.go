package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/ccsustmap/campusmap/internal/adapters/nats"
	"github.com/ccsustmap/campusmap/internal/adapters/surface"
)

// wsMessage is sent from client to request a state snapshot.
type wsMessage struct {
	Action string `json:"action"` // "state"
}

// WebSocketHandler upgrades to WebSocket and streams live session events:
// camera transitions, navigation links and, on request, state snapshots.
// A snapshot is sent on connect. When NATS is connected, camera transitions
// published by other processes on the camera subject are relayed too.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		logger := LoggerFromCtx(context.Background()).With("remote_addr", c.RemoteAddr().String())
		logger.Info("ws client connected")

		var mu sync.Mutex
		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			return writeRaw(data)
		}
		sendState := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			st, err := stateOf(ctx, deps)
			if err != nil {
				_ = writeJSON(map[string]string{"error": err.Error()})
				return
			}
			_ = writeJSON(surface.Event{Type: surface.EventState, State: &st})
		}

		events, unsubscribe := deps.Hub.Subscribe(16)
		defer unsubscribe()

		var remote *nats.Subscription
		if deps.NATS != nil {
			sub, err := deps.NATS.Subscribe(natsadapter.SubjectCamera, func(msg *nats.Msg) {
				if natsadapter.FromInstance(msg, deps.Instance) {
					return
				}
				_ = writeJSON(map[string]interface{}{
					"type":       "remote_" + surface.EventCameraTransition,
					"transition": json.RawMessage(msg.Data),
				})
			})
			if err != nil {
				logger.Warn("ws nats subscribe", "error", err)
			} else {
				remote = sub
			}
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case data, ok := <-events:
					if !ok {
						return
					}
					if err := writeRaw(data); err != nil {
						return
					}
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		sendState()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			switch m.Action {
			case "state":
				sendState()
			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		if remote != nil {
			_ = remote.Unsubscribe()
		}
		logger.Info("ws client disconnected")
	}
}

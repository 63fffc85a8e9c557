// Package wsremote implements a windmouse.Driver that streams pointer
// events as JSON frames over a websocket to a remote cursor agent. The
// agent owns the actual platform injection (KVM-style); this driver only
// speaks the wire protocol.
package wsremote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event kinds understood by the cursor agent.
const (
	EventMove    = "move"
	EventPress   = "press"
	EventRelease = "release"
)

// Event is one JSON frame on the wire.
type Event struct {
	Type       string `json:"type"`
	X          int    `json:"x,omitempty"`
	Y          int    `json:"y,omitempty"`
	Button     string `json:"btn,omitempty"`
	DurationMs int64  `json:"duration_ms,omitempty"`
	Timestamp  int64  `json:"ts"`
}

// Driver streams pointer events over a single websocket connection. The
// connection is owned by the driver from Dial until Close.
type Driver struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *zap.Logger
	held   windmouse.HoldMouseButton
	now    func() time.Time
}

// Dial connects to a cursor agent at rawURL (ws:// or wss://).
func Dial(ctx context.Context, rawURL string, logger *zap.Logger) (*Driver, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wsremote: dial %s: %w", rawURL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	logger.Debug("connected to cursor agent", zap.String("url", rawURL))
	return &Driver{
		conn:   conn,
		logger: logger,
		held:   windmouse.ButtonNone,
		now:    time.Now,
	}, nil
}

// MoveCursorTo emits press/release transitions for the held button followed
// by the move frame itself. The agent is expected to spread the relocation
// over duration_ms; the driver does not sleep locally.
func (d *Driver) MoveCursorTo(ctx context.Context, pos windmouse.Position, duration time.Duration, held windmouse.HoldMouseButton) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := d.conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("wsremote: set deadline: %w", err)
		}
	}

	if held != d.held {
		if d.held != windmouse.ButtonNone {
			if err := d.send(Event{Type: EventRelease, Button: string(d.held)}); err != nil {
				return err
			}
		}
		if held != windmouse.ButtonNone {
			if err := d.send(Event{Type: EventPress, Button: string(held), X: int(pos.X), Y: int(pos.Y)}); err != nil {
				return err
			}
		}
		d.held = held
	}

	return d.send(Event{
		Type:       EventMove,
		X:          int(pos.X),
		Y:          int(pos.Y),
		DurationMs: duration.Milliseconds(),
	})
}

// Close releases any held button and tears down the connection.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.held != windmouse.ButtonNone {
		if err := d.send(Event{Type: EventRelease, Button: string(d.held)}); err != nil {
			d.logger.Warn("failed to release held button on close", zap.Error(err))
		}
		d.held = windmouse.ButtonNone
	}
	return d.conn.Close()
}

// send marshals and writes one frame. Callers hold d.mu.
func (d *Driver) send(ev Event) error {
	ev.Timestamp = d.now().UnixMilli()
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("wsremote: encode %s event: %w", ev.Type, err)
	}
	if err := d.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("wsremote: write %s event: %w", ev.Type, err)
	}
	return nil
}

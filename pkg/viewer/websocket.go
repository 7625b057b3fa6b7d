package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var _ Window = (*WebsocketWindow)(nil)

// WebsocketWindow adapts a websocket connection to the Window interface.
// Writes are serialized since gorilla connections allow one concurrent
// writer only.
type WebsocketWindow struct {
	mu sync.Mutex

	conn *websocket.Conn
}

func NewWebsocketWindow(conn *websocket.Conn) *WebsocketWindow {
	return &WebsocketWindow{
		conn: conn,
	}
}

func (w *WebsocketWindow) Post(ctx context.Context, env Envelope) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		w.conn.SetWriteDeadline(deadline)
	}

	return w.conn.WriteJSON(env)
}

func (w *WebsocketWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	w.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))

	return w.conn.Close()
}

// ServeConn attaches a viewer-initiated websocket connection to the channel
// and dispatches inbound envelopes until the connection closes.
func ServeConn(ctx context.Context, channel *Channel, conn *websocket.Conn, opts OpenOptions) error {
	window := NewWebsocketWindow(conn)
	channel.AttachWindow(window, opts)

	for {
		var env Envelope

		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			return err
		}

		if err := channel.Handle(ctx, env); err != nil {
			channel.config.Logger.Warn("error handling viewer message", "type", env.Type, "error", err)
		}
	}
}

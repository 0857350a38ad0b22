package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/notes/pkg/protocol"
	"github.com/vango-dev/notes/pkg/scheduler"
)

// maxViewerMessage bounds what a viewer may send; viewers only answer pings.
const maxViewerMessage = 512

type viewer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	// Scheduler goroutine only.
	resync bool
}

func newViewer(conn *websocket.Conn, buffer int) *viewer {
	return &viewer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// trySend queues frame without blocking.
func (v *viewer) trySend(frame []byte) bool {
	if v.closed() {
		return false
	}
	select {
	case v.send <- frame:
		return true
	default:
		return false
	}
}

func (v *viewer) closed() bool {
	select {
	case <-v.done:
		return true
	default:
		return false
	}
}

func (v *viewer) close() {
	v.once.Do(func() {
		close(v.done)
	})
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live: upgrade failed", "error", err)
		return
	}
	v := newViewer(conn, h.sendBuffer)
	logger := h.logger.With("viewer", v.id)

	ctx, cancel := context.WithTimeout(r.Context(), h.writeTimeout)
	defer cancel()
	err = h.onUI(ctx, func() {
		if v.closed() {
			return
		}
		// Ops recorded outside a pass are already in the snapshot.
		h.flush(scheduler.Pass{})
		frame, err := h.snapshot(0)
		if err != nil || !v.trySend(frame) {
			logger.Error("live: initial snapshot", "error", err)
			v.close()
			return
		}
		h.viewers[v] = struct{}{}
	})
	if err != nil {
		logger.Warn("live: viewer rejected", "error", err)
		v.close()
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = conn.WriteMessage(websocket.BinaryMessage, errorFrame("preview busy"))
		h.closeConn(conn, websocket.CloseTryAgainLater, "preview busy")
		return
	}

	h.metrics.ViewerConnected()
	h.connected.Add(1)
	logger.Info("live: viewer connected", "remote", r.RemoteAddr)

	go h.writePump(v, logger)
	h.readPump(v, logger)

	v.close()
	h.sched.Dispatch(func() { delete(h.viewers, v) })
	h.metrics.ViewerDisconnected()
	h.connected.Add(-1)
	logger.Info("live: viewer disconnected")
}

// readPump consumes control frames until the connection fails.
func (h *Hub) readPump(v *viewer, logger *slog.Logger) {
	v.conn.SetReadLimit(maxViewerMessage)
	wait := 2 * h.pingInterval
	_ = v.conn.SetReadDeadline(time.Now().Add(wait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(wait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logger.Debug("live: read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(v *viewer, logger *slog.Logger) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		v.close()
		_ = v.conn.Close()
	}()

	for {
		select {
		case frame := <-v.send:
			_ = v.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := v.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				logger.Debug("live: write error", "error", err)
				return
			}
			h.metrics.FrameSent()
		case <-ticker.C:
			if err := v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				logger.Debug("live: ping error", "error", err)
				return
			}
		case <-v.done:
			h.closeConn(v.conn, websocket.CloseNormalClosure, "")
			return
		}
	}
}

func (h *Hub) closeConn(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second))
	_ = conn.Close()
}

// Close disconnects every viewer. Call it from the scheduler goroutine or
// after the scheduler has stopped.
func (h *Hub) Close() {
	for v := range h.viewers {
		v.close()
		delete(h.viewers, v)
	}
}

// errorFrame builds a FrameError carrying msg.
func errorFrame(msg string) []byte {
	b, _ := protocol.NewFrame(protocol.FrameError, []byte(msg)).Encode()
	return b
}

package live

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/protocol"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/scheduler"
	"github.com/vango-dev/notes/pkg/telemetry"
)

//go:embed live.js
var assets embed.FS

// ErrBusy is returned when the scheduler refuses dispatched work.
var ErrBusy = errors.New("live: scheduler queue full or stopped")

// Hub broadcasts render passes to browser viewers.
type Hub struct {
	sched   *scheduler.Scheduler
	root    *dom.Node
	page    render.PageData
	logger  *slog.Logger
	metrics *telemetry.Metrics

	gatherer     prometheus.Gatherer
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	pingInterval time.Duration
	sendBuffer   int

	// Scheduler goroutine only.
	pending []protocol.Op
	seq     uint64
	viewers map[*viewer]struct{}

	connected atomic.Int64
	router    chi.Router
}

// Option configures a Hub.
type Option func(*Hub)

// WithPage sets the title and stylesheets of the served page.
func WithPage(page render.PageData) Option {
	return func(h *Hub) {
		h.page = page
	}
}

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithMetrics records viewer, frame and request metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(h *Hub) {
		h.gatherer = g
	}
}

// WithWriteTimeout bounds each frame write to a viewer.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithPingInterval sets the keepalive interval. Viewers that do not answer
// within two intervals are dropped.
func WithPingInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.pingInterval = d
		}
	}
}

// WithSendBuffer sets how many frames may queue per viewer before it is
// switched to a resync snapshot.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithCheckOrigin overrides the WebSocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// New attaches a hub to sched. It must be called before the first render
// pass so the initial mount is recorded like any other pass.
func New(sched *scheduler.Scheduler, opts ...Option) *Hub {
	h := &Hub{
		sched:        sched,
		root:         sched.Root(),
		logger:       slog.Default(),
		gatherer:     prometheus.DefaultGatherer,
		writeTimeout: 10 * time.Second,
		pingInterval: 30 * time.Second,
		sendBuffer:   64,
		viewers:      make(map[*viewer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.page.MountID == "" {
		if id, ok := h.root.Attribute("id"); ok {
			h.page.MountID = id
		}
	}
	h.page.Scripts = append(h.page.Scripts, "/live.js?mount="+h.mountID())

	h.root.Document().Observe(h.observe)
	sched.OnRender(h.flush)
	h.router = h.routes()
	return h
}

func (h *Hub) mountID() string {
	if h.page.MountID == "" {
		return "app"
	}
	return h.page.MountID
}

func (h *Hub) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)

	r.Get("/", h.handlePage)
	r.Get("/live.js", h.handleScript)
	r.Get("/ws", h.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	return r
}

// ServeHTTP implements http.Handler.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	return int(h.connected.Load())
}

// Seq returns the sequence number of the last broadcast batch. Call it from
// the scheduler goroutine.
func (h *Hub) Seq() uint64 {
	return h.seq
}

func (h *Hub) observe(m dom.Mutation) {
	if op, ok := protocol.OpFromMutation(h.root, m); ok {
		h.pending = append(h.pending, op)
	}
}

// flush runs after each render pass on the scheduler goroutine.
func (h *Hub) flush(pass scheduler.Pass) {
	if len(h.pending) == 0 {
		return
	}
	h.seq++
	patch, err := protocol.NewFrame(protocol.FramePatch,
		protocol.EncodeBatch(protocol.Batch{Seq: h.seq, Ops: h.pending})).Encode()
	h.pending = h.pending[:0]
	if err != nil {
		h.logger.Error("live: encode patch", "pass", pass.Number, "error", err)
		for v := range h.viewers {
			v.resync = true
		}
		return
	}

	var resync []byte
	for v := range h.viewers {
		if v.closed() {
			delete(h.viewers, v)
			continue
		}
		if v.resync {
			if resync == nil {
				if resync, err = h.snapshot(protocol.FlagResync); err != nil {
					h.logger.Error("live: encode snapshot", "error", err)
					return
				}
			}
			if v.trySend(resync) {
				v.resync = false
			}
			continue
		}
		if !v.trySend(patch) {
			v.resync = true
			h.logger.Warn("live: viewer behind, scheduling resync", "viewer", v.id)
		}
	}
}

func (h *Hub) snapshot(flags protocol.FrameFlags) ([]byte, error) {
	f := protocol.NewFrame(protocol.FrameSnapshot, protocol.EncodeSnapshot(h.seq, h.root))
	f.Flags = flags
	return f.Encode()
}

// onUI runs fn on the scheduler goroutine and waits for it.
func (h *Hub) onUI(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !h.sched.Dispatch(func() {
		defer close(done)
		fn()
	}) {
		return ErrBusy
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) handlePage(w http.ResponseWriter, r *http.Request) {
	page := h.page
	if err := h.onUI(r.Context(), func() { page.Body = h.sched.Tree() }); err != nil {
		h.logger.Warn("live: page unavailable", "error", err)
		http.Error(w, "preview unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, page); err != nil {
		h.logger.Error("live: write page", "error", err)
	}
}

func (h *Hub) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	http.ServeFileFS(w, r, assets, "live.js")
}

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/telemetry"
	"github.com/vango-dev/notes/pkg/vdom"
)

// ErrStopped is returned by Run after Stop.
var ErrStopped = errors.New("scheduler: stopped")

// View produces the tree for the mount point.
type View func() *vdom.Node

// Pass describes one completed render pass.
type Pass struct {
	// Number counts passes from 1.
	Number int

	// Mode is "mount" for the first pass and "patch" afterwards.
	Mode string

	// Tree is the tree the pass rendered.
	Tree *vdom.Node

	// Mutations are the document changes the pass applied, in order.
	Mutations []dom.Mutation

	Duration time.Duration
}

// Scheduler renders a view into a mount point.
type Scheduler struct {
	root     *dom.Node
	view     View
	rt       *reactive.Runtime
	renderer *render.Renderer
	logger   *slog.Logger
	metrics  *telemetry.Metrics

	prev     *vdom.Node
	passes   int
	comp     *reactive.Computation
	hooks    []func(Pass)
	inPass   bool
	recorded []dom.Mutation

	dispatchCh chan func()
	done       chan struct{}
	stopped    atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRuntime sets the reactive runtime the render pass is tracked in.
// Defaults to reactive.Default().
func WithRuntime(rt *reactive.Runtime) Option {
	return func(s *Scheduler) {
		s.rt = rt
	}
}

// WithRenderer sets the renderer. Defaults to a renderer for the mount
// point's document sharing the scheduler's logger.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Scheduler) {
		s.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithMetrics records pass and mutation metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithQueueSize sets how many dispatched functions may wait for Run.
// Defaults to 256.
func WithQueueSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.dispatchCh = make(chan func(), n)
		}
	}
}

// New creates a scheduler rendering view into root.
func New(root *dom.Node, view View, opts ...Option) *Scheduler {
	s := &Scheduler{
		root:   root,
		view:   view,
		rt:     reactive.Default(),
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatchCh == nil {
		s.dispatchCh = make(chan func(), 256)
	}
	if s.renderer == nil {
		s.renderer = render.New(root.Document(), render.WithLogger(s.logger))
	}
	root.Document().Observe(s.observe)
	return s
}

// Root returns the mount point.
func (s *Scheduler) Root() *dom.Node {
	return s.root
}

// Tree returns the tree rendered by the last pass, or nil before the first.
func (s *Scheduler) Tree() *vdom.Node {
	return s.prev
}

// Passes returns the number of passes run so far.
func (s *Scheduler) Passes() int {
	return s.passes
}

// OnRender registers fn to run after every pass.
func (s *Scheduler) OnRender(fn func(Pass)) {
	s.hooks = append(s.hooks, fn)
}

// Mount runs the first pass as a tracked computation: every later write to
// state the view read runs another pass. Calling Mount again does nothing.
func (s *Scheduler) Mount() *reactive.Computation {
	if s.comp == nil {
		s.comp = s.rt.RunNamed("render", s.Render)
	}
	return s.comp
}

// Unmount stops re-rendering on state changes. The live document is left
// as it is.
func (s *Scheduler) Unmount() {
	if s.comp != nil {
		s.comp.Dispose()
		s.comp = nil
	}
}

// Render runs one pass. While there is no previous tree the root is cleared
// and the new tree appended; otherwise the previous tree is patched. The
// stored tree is replaced by the new one even if patching panics.
func (s *Scheduler) Render() {
	start := time.Now()
	s.passes++
	pass := Pass{Number: s.passes, Mode: "patch"}
	if s.prev == nil {
		pass.Mode = "mount"
	}

	_, span := telemetry.StartSpan(context.Background(), "scheduler.render",
		attribute.Int("pass", pass.Number),
		attribute.String("mode", pass.Mode),
	)

	next := s.view()

	s.inPass = true
	s.recorded = nil
	defer func() {
		s.inPass = false
		s.prev = next
		telemetry.EndSpan(span, nil)
	}()

	if pass.Mode == "mount" {
		s.root.Clear()
		s.root.AppendChild(s.renderer.Materialize(next))
	} else {
		s.renderer.Patch(s.root, next, s.prev, 0)
	}

	pass.Tree = next
	pass.Mutations = s.recorded
	pass.Duration = time.Since(start)
	s.metrics.RenderPass(pass.Mode, pass.Duration)
	s.logger.Debug("render pass",
		"pass", pass.Number,
		"mode", pass.Mode,
		"mutations", len(pass.Mutations),
		"duration", pass.Duration,
	)

	for _, hook := range s.hooks {
		hook(pass)
	}
}

func (s *Scheduler) observe(m dom.Mutation) {
	s.metrics.Mutation(m.Kind.String())
	if s.inPass {
		s.recorded = append(s.recorded, m)
	}
}

// Dispatch queues fn to run on the goroutine calling Run. It is safe to
// call from any goroutine. It reports false if fn was discarded because the
// scheduler is stopped or the queue is full.
func (s *Scheduler) Dispatch(fn func()) bool {
	if s.stopped.Load() {
		return false
	}
	select {
	case s.dispatchCh <- fn:
		return true
	case <-s.done:
		return false
	default:
		s.logger.Warn("dispatch queue full, discarding callback")
		return false
	}
}

// Run executes dispatched functions until ctx is done or Stop is called.
// A panicking function is logged and does not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-s.dispatchCh:
			s.execute(fn)
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrStopped
		}
	}
}

// Drain executes the dispatched functions already queued and returns how
// many ran. It does not wait for more.
func (s *Scheduler) Drain() int {
	n := 0
	for {
		select {
		case fn := <-s.dispatchCh:
			s.execute(fn)
			n++
		default:
			return n
		}
	}
}

// Stop ends Run. Later dispatches are discarded.
func (s *Scheduler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.done)
	}
}

func (s *Scheduler) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

package reactive

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/vango-dev/notes/pkg/telemetry"
)

// DefaultMaxDepth is the default limit on nested notifications.
const DefaultMaxDepth = 64

// globalIDCounter is the source of unique computation IDs across runtimes.
var globalIDCounter uint64

func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// Runtime owns the tracking state shared by every store, list and cell it
// creates.
type Runtime struct {
	// active is the computation whose reads are being recorded.
	// nil means reads are not tracked.
	active *Computation

	// maps caches the Store created for each wrapped map, keyed by the map's
	// identity, so wrapping twice yields one handle.
	maps map[uintptr]*Store

	// lists caches the List created for each wrapped slice, keyed by its
	// backing array and length.
	lists map[sliceKey]*List

	depth     int
	maxDepth  int
	resetDeps bool

	logger  *slog.Logger
	metrics *telemetry.Metrics
	onError func(error)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used to report failed computations.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithMetrics records writes, notifications and failures.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// WithDependencyReset clears a computation's dependencies before each run,
// so it only depends on what its latest run read. Without it dependencies
// accumulate across runs.
func WithDependencyReset() Option {
	return func(rt *Runtime) {
		rt.resetDeps = true
	}
}

// WithMaxDepth sets the limit on nested notifications (default 64).
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxDepth = n
		}
	}
}

// WithErrorHandler is called with every error the runtime logs.
func WithErrorHandler(fn func(error)) Option {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}

// NewRuntime creates a runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		maps:     make(map[uintptr]*Store),
		lists:    make(map[sliceKey]*List),
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

var defaultRuntime = NewRuntime()

// Default returns the process-wide runtime used by the package functions.
func Default() *Runtime {
	return defaultRuntime
}

// Wrap wraps m in the default runtime. See Runtime.Wrap.
func Wrap(m map[string]any) *Store {
	return defaultRuntime.Wrap(m)
}

// RunTracked runs fn as a tracked computation in the default runtime.
func RunTracked(fn func()) *Computation {
	return defaultRuntime.RunTracked(fn)
}

// Untracked runs fn without tracking in the default runtime.
func Untracked(fn func()) {
	defaultRuntime.Untracked(fn)
}

// Wrap returns the Store for m. Wrapping the same map again returns the same
// Store. A nil map is wrapped as a new empty map.
func (rt *Runtime) Wrap(m map[string]any) *Store {
	if m == nil {
		return rt.newStore(make(map[string]any))
	}
	id := reflect.ValueOf(m).Pointer()
	if s, ok := rt.maps[id]; ok {
		return s
	}
	s := rt.newStore(m)
	rt.maps[id] = s
	return s
}

// sliceKey identifies a slice by its backing array and length.
type sliceKey struct {
	data uintptr
	len  int
}

// WrapList returns the List for items. Wrapping the same slice again
// returns the same List. Slices with no backing array always get a new
// List.
func (rt *Runtime) WrapList(items []any) *List {
	if cap(items) == 0 {
		return rt.newList(items, nil)
	}
	key := sliceKey{data: reflect.ValueOf(items).Pointer(), len: len(items)}
	if l, ok := rt.lists[key]; ok {
		return l
	}
	l := rt.newList(items, nil)
	rt.lists[key] = l
	return l
}

// Reactive returns the reactive handle for v: a *Store for maps, a *List
// for slices, and v itself for anything else, including values that are
// already handles.
func (rt *Runtime) Reactive(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return rt.Wrap(val)
	case []any:
		return rt.WrapList(val)
	default:
		return v
	}
}

// RunTracked runs fn once as the active computation and returns the
// computation. fn re-runs, again tracked, whenever a key it read is written.
func (rt *Runtime) RunTracked(fn func()) *Computation {
	return rt.RunNamed("", fn)
}

// RunNamed is RunTracked with a name used in logs.
func (rt *Runtime) RunNamed(name string, fn func()) *Computation {
	c := &Computation{id: nextID(), name: name, fn: fn, rt: rt}
	rt.run(c)
	return c
}

// Untracked runs fn with no active computation. Reads inside fn do not
// create dependencies.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.active
	rt.active = nil
	defer func() { rt.active = prev }()
	fn()
}

// Active returns the computation currently recording reads, or nil.
func (rt *Runtime) Active() *Computation {
	return rt.active
}

func (rt *Runtime) run(c *Computation) {
	c.runs++
	if rt.resetDeps {
		c.clearSources()
	}
	prev := rt.active
	rt.active = c
	defer func() { rt.active = prev }()
	c.fn()
}

// track subscribes the active computation to s.
func (rt *Runtime) track(s *subscribers) {
	if rt.active == nil || rt.active.disposed {
		return
	}
	s.subscribe(rt.active)
}

// notify runs every dependent of s. Failures are reported and do not stop
// the remaining dependents.
func (rt *Runtime) notify(s *subscribers) {
	rt.metrics.StoreWrite()
	if s == nil || len(s.subs) == 0 {
		return
	}
	if rt.depth >= rt.maxDepth {
		rt.metrics.ComputationError("depth")
		rt.report(fmt.Errorf("%w: write to %q at depth %d", ErrMaxDepth, s.key, rt.depth))
		return
	}

	rt.depth++
	defer func() { rt.depth-- }()

	subs := s.snapshot()
	rt.metrics.Notified(len(subs))
	for _, c := range subs {
		if c.disposed {
			continue
		}
		rt.runRecovered(c, s.key)
	}
}

func (rt *Runtime) runRecovered(c *Computation, key string) {
	defer func() {
		if r := recover(); r != nil {
			rt.metrics.ComputationError("panic")
			rt.report(&ComputationError{
				ComputationID: c.id,
				Name:          c.name,
				Key:           key,
				Recovered:     r,
			})
		}
	}()
	rt.run(c)
}

func (rt *Runtime) report(err error) {
	rt.logger.Error("reactive: dependent computation failed", "error", err)
	if rt.onError != nil {
		rt.onError(err)
	}
}

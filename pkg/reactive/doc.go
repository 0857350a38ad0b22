// Package reactive provides the dependency-tracking state used by views.
//
// A Store is a reactive object: reading a key while a tracked computation is
// running records the computation as a dependent of that key, and writing the
// key re-runs every dependent synchronously before Set returns.
//
//	state := reactive.Wrap(map[string]any{"count": 0})
//	reactive.RunTracked(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//	state.Set("count", 5) // prints "count is 5"
//
// Nested maps and slices are wrapped on first read, so writes deep inside
// the state are tracked too. Cell[T] is the typed single-value variant.
//
// # Tracking
//
// The runtime holds an explicit "active computation" slot. RunTracked sets
// it for the duration of one run; Get consults it. Nothing is intercepted
// implicitly: only reads through Store, List and Cell are tracked.
//
// Writes never short-circuit on equality. Writing the value a key already
// holds re-runs its dependents.
//
// By default a computation's dependencies accumulate across runs and are
// never pruned. WithDependencyReset clears them before every run instead.
//
// # Failures
//
// A dependent that panics is recovered and logged; the remaining dependents
// still run and the write itself is not undone. Writes that re-enter
// notification deeper than the runtime's MaxDepth are dropped and logged.
//
// # Thread Safety
//
// A Runtime and the stores it creates are not safe for concurrent use. They
// belong to the UI goroutine; other goroutines hand writes to it through
// scheduler.Dispatch.
package reactive

package reactive

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func quietRuntime(opts ...Option) *Runtime {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewRuntime(opts...)
}

func TestWriteRerunsDependentOnce(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"count": 0})

	var seen []any
	rt.RunTracked(func() {
		seen = append(seen, state.Get("count"))
	})

	state.Set("count", 5)

	if len(seen) != 2 {
		t.Fatalf("computation ran %d times, want 2", len(seen))
	}
	if seen[1] != 5 {
		t.Errorf("observed %v, want 5", seen[1])
	}
}

func TestWriteSameValueStillNotifies(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"p": "x"})

	runs := 0
	rt.RunTracked(func() {
		_ = state.Get("p")
		runs++
	})
	state.Set("p", "x")

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestWriteWithoutDependentsOnlyStores(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{})

	runs := 0
	rt.RunTracked(func() {
		_ = state.Get("a")
		runs++
	})
	state.Set("b", 1)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if state.Peek("b") != 1 {
		t.Errorf("b = %v, want 1", state.Peek("b"))
	}
}

func TestReadsOutsideComputationAreUntracked(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"a": 1})

	_ = state.Get("a")
	rt.RunTracked(func() {
		rt.Untracked(func() { _ = state.Get("a") })
	})

	if state.Dependents("a") != 0 {
		t.Errorf("Dependents(a) = %d, want 0", state.Dependents("a"))
	}
}

func TestWrapIsIdempotent(t *testing.T) {
	rt := quietRuntime()
	raw := map[string]any{"a": 1}

	if rt.Wrap(raw) != rt.Wrap(raw) {
		t.Error("Wrap returned different handles for the same map")
	}
	s := rt.Wrap(raw)
	if rt.Reactive(s) != s {
		t.Error("Reactive(handle) should return the handle")
	}
}

func TestWrapListIsIdempotent(t *testing.T) {
	rt := quietRuntime()
	raw := []any{"a", "b"}

	first, ok := rt.Reactive(raw).(*List)
	if !ok {
		t.Fatalf("Reactive([]any) = %T, want *List", rt.Reactive(raw))
	}
	second := rt.Reactive(raw).(*List)
	if first != second {
		t.Fatal("Reactive returned different lists for the same slice")
	}

	var seen []any
	rt.RunTracked(func() { seen = append(seen, first.Get(0)) })
	second.Set(0, "z")

	if len(seen) != 2 || seen[1] != "z" {
		t.Errorf("seen = %v, want [a z]", seen)
	}
	if rt.WrapList(raw[:1]) == first {
		t.Error("a shorter slice of the same array should get its own list")
	}
}

func TestNestedMapIsTracked(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{
		"user": map[string]any{"name": "ada"},
	})

	var names []string
	rt.RunTracked(func() {
		names = append(names, state.Store("user").String("name"))
	})

	if state.Store("user") != state.Store("user") {
		t.Fatal("nested store handle is not stable")
	}
	state.Store("user").Set("name", "grace")

	if len(names) != 2 || names[1] != "grace" {
		t.Errorf("names = %v", names)
	}
}

func TestNestedListIsTracked(t *testing.T) {
	rt := quietRuntime()
	raw := map[string]any{"notes": []any{"a"}}
	state := rt.Wrap(raw)

	var lengths []int
	rt.RunTracked(func() {
		lengths = append(lengths, state.List("notes").Len())
	})

	state.List("notes").Append("b")

	if len(lengths) != 2 || lengths[1] != 2 {
		t.Errorf("lengths = %v, want [1 2]", lengths)
	}
	if items, _ := raw["notes"].([]any); len(items) != 2 {
		t.Errorf("append did not write through: %v", raw["notes"])
	}
}

func TestListIndexTracking(t *testing.T) {
	rt := quietRuntime()
	list := rt.Reactive([]any{"a", "b"}).(*List)

	runs := 0
	rt.RunTracked(func() {
		_ = list.Get(1)
		runs++
	})

	list.Set(0, "x")
	if runs != 1 {
		t.Errorf("write to untracked index re-ran computation: runs = %d", runs)
	}
	list.Set(1, "y")
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	list.Set(3, "z")
	if list.Len() != 4 || list.Get(2) != nil {
		t.Errorf("Set past end: len = %d, gap = %v", list.Len(), list.Get(2))
	}
}

func TestInternalKeysAreNotTracked(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"_cache": 1})

	runs := 0
	rt.RunTracked(func() {
		_ = state.Get("_cache")
		runs++
	})
	state.Set("_cache", 2)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if keys := state.Keys(); len(keys) != 1 || keys[0] != "_cache" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestKeysDoNotExposeDependencies(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"b": 2, "a": 1})
	rt.RunTracked(func() { _ = state.Get("a") })

	keys := state.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
	snap := state.Snapshot()
	if len(snap) != 2 {
		t.Errorf("Snapshot() = %v", snap)
	}
}

func TestFailingDependentDoesNotStopOthers(t *testing.T) {
	var reported []error
	rt := quietRuntime(WithErrorHandler(func(err error) { reported = append(reported, err) }))
	state := rt.Wrap(map[string]any{"k": 0})

	first, third := 0, 0
	rt.RunTracked(func() { _ = state.Get("k"); first++ })
	armed := false
	rt.RunNamed("boom", func() {
		_ = state.Get("k")
		if armed {
			panic("boom")
		}
	})
	armed = true
	rt.RunTracked(func() { _ = state.Get("k"); third++ })

	state.Set("k", 1)

	if first != 2 || third != 2 {
		t.Errorf("first = %d, third = %d, want 2 and 2", first, third)
	}
	if state.Peek("k") != 1 {
		t.Errorf("write was undone: k = %v", state.Peek("k"))
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d errors, want 1", len(reported))
	}
	var ce *ComputationError
	if !errors.As(reported[0], &ce) || ce.Name != "boom" || ce.Key != "k" {
		t.Errorf("reported = %v", reported[0])
	}
	if rt.Active() != nil {
		t.Error("active computation not restored after panic")
	}
}

func TestSelfWriteIsBounded(t *testing.T) {
	var reported []error
	rt := quietRuntime(WithMaxDepth(5), WithErrorHandler(func(err error) { reported = append(reported, err) }))
	state := rt.Wrap(map[string]any{"n": 0})

	runs := 0
	rt.RunTracked(func() {
		runs++
		state.Set("n", state.Int("n")+1)
	})

	if runs > 10 {
		t.Fatalf("runs = %d, loop was not bounded", runs)
	}
	if len(reported) == 0 || !errors.Is(reported[0], ErrMaxDepth) {
		t.Errorf("reported = %v, want ErrMaxDepth", reported)
	}
}

func TestDependenciesAccumulateByDefault(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"useA": true, "a": 1, "b": 2})

	runs := 0
	rt.RunTracked(func() {
		runs++
		if state.Bool("useA") {
			_ = state.Get("a")
		} else {
			_ = state.Get("b")
		}
	})
	state.Set("useA", false)
	runs = 0

	state.Set("a", 10)
	if runs != 1 {
		t.Errorf("stale dependency on a: runs = %d, want 1", runs)
	}
}

func TestDependencyReset(t *testing.T) {
	rt := quietRuntime(WithDependencyReset())
	state := rt.Wrap(map[string]any{"useA": true, "a": 1, "b": 2})

	runs := 0
	c := rt.RunTracked(func() {
		runs++
		if state.Bool("useA") {
			_ = state.Get("a")
		} else {
			_ = state.Get("b")
		}
	})
	state.Set("useA", false)
	runs = 0

	state.Set("a", 10)
	if runs != 0 {
		t.Errorf("runs = %d, want 0 after reset", runs)
	}
	state.Set("b", 10)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if c.Dependencies() != 2 {
		t.Errorf("Dependencies() = %d, want 2", c.Dependencies())
	}
}

func TestDispose(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"a": 1})

	runs := 0
	c := rt.RunTracked(func() { _ = state.Get("a"); runs++ })
	c.Dispose()
	state.Set("a", 2)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if state.Dependents("a") != 0 {
		t.Errorf("Dependents(a) = %d, want 0", state.Dependents("a"))
	}
}

func TestAssignWritesEachKey(t *testing.T) {
	rt := quietRuntime()
	state := rt.Wrap(map[string]any{"a": 0, "b": 0})

	runs := 0
	rt.RunTracked(func() {
		_ = state.Get("a")
		_ = state.Get("b")
		runs++
	})
	state.Assign(map[string]any{"a": 1, "b": 2})

	if runs != 3 {
		t.Errorf("runs = %d, want 3 (one per written key)", runs)
	}
}

func TestCell(t *testing.T) {
	rt := quietRuntime()
	c := NewCellIn(rt, 1)

	var seen []int
	rt.RunTracked(func() { seen = append(seen, c.Get()) })
	c.Update(func(v int) int { return v + 1 })

	if len(seen) != 2 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
	if c.Peek() != 2 {
		t.Errorf("Peek() = %d", c.Peek())
	}
}

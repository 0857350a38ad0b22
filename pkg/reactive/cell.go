package reactive

// Cell is a typed reactive value.
type Cell[T any] struct {
	rt    *Runtime
	value T
	subs  *subscribers
}

// NewCell creates a cell in the default runtime.
func NewCell[T any](initial T) *Cell[T] {
	return NewCellIn(defaultRuntime, initial)
}

// NewCellIn creates a cell in rt.
func NewCellIn[T any](rt *Runtime, initial T) *Cell[T] {
	return &Cell[T]{
		rt:    rt,
		value: initial,
		subs:  &subscribers{key: "cell"},
	}
}

// Get returns the value and records the active computation as a dependent.
func (c *Cell[T]) Get() T {
	c.rt.track(c.subs)
	return c.value
}

// Peek returns the value without tracking.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Set stores value and runs every dependent.
func (c *Cell[T]) Set(value T) {
	c.value = value
	c.rt.notify(c.subs)
}

// Update sets the value to fn applied to the current value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}

package dom

// Listener handles an event dispatched to a node.
type Listener func(e *Event)

// ListenerID identifies a registered listener so it can be removed later.
// Go funcs are not comparable, so the ID stands in for the function value.
type ListenerID uint64

// Event is dispatched to the listeners of a node.
type Event struct {
	// Type is the event name without the "on" prefix ("click", "input").
	Type string

	// Target is the node the event was dispatched to.
	Target *Node

	// Value carries the target's live value for input and change events.
	Value string

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopImmediatePropagation prevents the remaining listeners from running.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
}

type listener struct {
	id ListenerID
	fn Listener
}

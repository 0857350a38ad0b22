package reactive

import "strconv"

const lengthKey = "length"

// List is a reactive slice. Reads track the index read, or the length for
// Len and Values; writes notify the index written and, when the list grows,
// its length.
type List struct {
	rt        *Runtime
	items     []any
	deps      depIndex
	nested    map[int]*List
	writeBack func([]any)
}

func (rt *Runtime) newList(items []any, writeBack func([]any)) *List {
	return &List{
		rt:        rt,
		items:     items,
		deps:      make(depIndex),
		writeBack: writeBack,
	}
}

// Len returns the number of items and tracks the length.
func (l *List) Len() int {
	l.rt.track(l.deps.get(lengthKey))
	return len(l.items)
}

// Get returns item i, or nil if i is out of range, and tracks index i.
func (l *List) Get(i int) any {
	l.rt.track(l.deps.get(strconv.Itoa(i)))
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.wrapChild(i, l.items[i])
}

// Values returns the items, wrapping nested maps and slices, and tracks the
// length and every index.
func (l *List) Values() []any {
	l.rt.track(l.deps.get(lengthKey))
	out := make([]any, len(l.items))
	for i, v := range l.items {
		l.rt.track(l.deps.get(strconv.Itoa(i)))
		out[i] = l.wrapChild(i, v)
	}
	return out
}

func (l *List) wrapChild(i int, v any) any {
	switch val := v.(type) {
	case map[string]any:
		return l.rt.Wrap(val)
	case []any:
		if n, ok := l.nested[i]; ok {
			return n
		}
		n := l.rt.newList(val, func(items []any) { l.items[i] = items })
		if l.nested == nil {
			l.nested = make(map[int]*List)
		}
		l.nested[i] = n
		return n
	default:
		return v
	}
}

// Set writes item i. Writing past the end grows the list, filling the gap
// with nil. Negative indexes are ignored.
func (l *List) Set(i int, value any) {
	if i < 0 {
		return
	}
	grew := false
	for i >= len(l.items) {
		l.items = append(l.items, nil)
		grew = true
	}
	delete(l.nested, i)
	l.items[i] = unwrap(value)
	l.sync()

	l.rt.notify(l.deps[strconv.Itoa(i)])
	if grew {
		l.rt.notify(l.deps[lengthKey])
	}
}

// Append adds items to the end of the list.
func (l *List) Append(values ...any) {
	if len(values) == 0 {
		return
	}
	start := len(l.items)
	for _, v := range values {
		l.items = append(l.items, unwrap(v))
	}
	l.sync()

	for i := start; i < len(l.items); i++ {
		l.rt.notify(l.deps[strconv.Itoa(i)])
	}
	l.rt.notify(l.deps[lengthKey])
}

// Snapshot returns a deep copy of the items without tracking.
func (l *List) Snapshot() []any {
	out, _ := snapshotValue(l.items).([]any)
	return out
}

func (l *List) sync() {
	if l.writeBack != nil {
		l.writeBack(l.items)
	}
}

func unwrap(v any) any {
	switch val := v.(type) {
	case *Store:
		return val.values
	case *List:
		return val.items
	default:
		return v
	}
}

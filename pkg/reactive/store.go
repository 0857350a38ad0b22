package reactive

import (
	"sort"
	"strings"
)

// isTracked reports whether reads and writes of key take part in tracking.
// Keys starting with "_" are internal: they are stored and enumerated but
// never create dependencies or notify.
func isTracked(key string) bool {
	return key != "" && !strings.HasPrefix(key, "_")
}

// Store is a reactive object wrapping a map. Writes go through to the
// wrapped map.
type Store struct {
	rt     *Runtime
	values map[string]any
	deps   depIndex
	lists  map[string]*List
}

func (rt *Runtime) newStore(m map[string]any) *Store {
	return &Store{
		rt:     rt,
		values: m,
		deps:   make(depIndex),
	}
}

// Runtime returns the runtime the store belongs to.
func (s *Store) Runtime() *Runtime {
	return s.rt
}

// Get returns the value of key and records the active computation as a
// dependent of key. Map and slice values are returned as *Store and *List.
func (s *Store) Get(key string) any {
	if isTracked(key) {
		s.rt.track(s.deps.get(key))
	}
	return s.wrapChild(key, s.values[key])
}

// Peek returns the value of key without tracking.
func (s *Store) Peek(key string) any {
	return s.wrapChild(key, s.values[key])
}

func (s *Store) wrapChild(key string, v any) any {
	switch val := v.(type) {
	case map[string]any:
		return s.rt.Wrap(val)
	case []any:
		if l, ok := s.lists[key]; ok {
			return l
		}
		l := s.rt.newList(val, func(items []any) { s.values[key] = items })
		if s.lists == nil {
			s.lists = make(map[string]*List)
		}
		s.lists[key] = l
		return l
	default:
		return v
	}
}

// Set writes value to key, then runs every dependent of key before
// returning. Writing the current value still notifies. *Store and *List
// values are stored unwrapped so they are not wrapped twice.
func (s *Store) Set(key string, value any) {
	delete(s.lists, key)
	switch val := value.(type) {
	case *Store:
		value = val.values
	case *List:
		value = val.items
	}
	s.values[key] = value

	if !isTracked(key) {
		return
	}
	s.rt.notify(s.deps[key])
}

// Delete removes key and notifies its dependents.
func (s *Store) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.lists, key)
	delete(s.values, key)
	if isTracked(key) {
		s.rt.notify(s.deps[key])
	}
}

// Assign writes every entry of partial, one Set per key in sorted key
// order. Each write notifies on its own.
func (s *Store) Assign(partial map[string]any) {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, partial[k])
	}
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys of the store in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.values)
}

// Snapshot returns a deep copy of the store as plain maps and slices.
// Nothing is tracked.
func (s *Store) Snapshot() map[string]any {
	return snapshotMap(s.values)
}

// Dependents returns the number of computations subscribed to key.
func (s *Store) Dependents(key string) int {
	if d, ok := s.deps[key]; ok {
		return len(d.subs)
	}
	return 0
}

// String returns the value of key as a string, or "" if it is not one.
func (s *Store) String(key string) string {
	v, _ := s.Get(key).(string)
	return v
}

// Int returns the value of key as an int. Other numeric types are
// converted; anything else yields 0.
func (s *Store) Int(key string) int {
	switch v := s.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Bool returns the value of key as a bool, or false if it is not one.
func (s *Store) Bool(key string) bool {
	v, _ := s.Get(key).(bool)
	return v
}

// Store returns the nested store at key, or nil if key does not hold a map.
func (s *Store) Store(key string) *Store {
	v, _ := s.Get(key).(*Store)
	return v
}

// List returns the nested list at key, or nil if key does not hold a slice.
func (s *Store) List(key string) *List {
	v, _ := s.Get(key).(*List)
	return v
}

func snapshotMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = snapshotValue(v)
	}
	return out
}

func snapshotValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return snapshotMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = snapshotValue(item)
		}
		return out
	default:
		return v
	}
}

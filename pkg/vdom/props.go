package vdom

import (
	"reflect"

	"github.com/vango-dev/notes/pkg/dom"
)

// PropKind is the prop variant discriminator.
type PropKind uint8

const (
	PropAttr  PropKind = iota // Generic attribute, set with its string form
	PropClass                 // Styling class
	PropValue                 // Live "value" property of form controls
	PropEvent                 // Event binding
)

// String returns the string representation of the PropKind.
func (k PropKind) String() string {
	switch k {
	case PropAttr:
		return "Attr"
	case PropClass:
		return "Class"
	case PropValue:
		return "Value"
	case PropEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

// Prop is a single element prop.
type Prop struct {
	Kind    PropKind
	Name    string       // Attribute name, or event type without "on" for events
	Value   any          // nil means unset
	Handler dom.Listener // Event handler for PropEvent
}

// Key returns the identity of the prop within an element. Event props are
// keyed "on"+type so they never collide with an attribute of the same name.
func (p Prop) Key() string {
	switch p.Kind {
	case PropEvent:
		return "on" + p.Name
	case PropClass:
		return "class"
	case PropValue:
		return "value"
	default:
		return p.Name
	}
}

// IsSet reports whether the prop carries a value. Unset props are skipped on
// materialize and removed on patch.
func (p Prop) IsSet() bool {
	if p.Kind == PropEvent {
		return p.Handler != nil
	}
	return p.Value != nil
}

// Equal reports whether two props would produce the same live state.
// Event props never compare equal while set: Go funcs have no identity to
// compare, so a set handler is always rebound.
func (p Prop) Equal(o Prop) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == PropEvent {
		return p.Handler == nil && o.Handler == nil
	}
	return valuesEqual(p.Value, o.Value)
}

// Props is an ordered prop list. A later prop with the same key replaces an
// earlier one when added through Set.
type Props []Prop

// Get returns the prop with the given key.
func (ps Props) Get(key string) (Prop, bool) {
	for _, p := range ps {
		if p.Key() == key {
			return p, true
		}
	}
	return Prop{}, false
}

// Set adds p, replacing a prop with the same key in place.
func (ps Props) Set(p Prop) Props {
	key := p.Key()
	for i := range ps {
		if ps[i].Key() == key {
			ps[i] = p
			return ps
		}
	}
	return append(ps, p)
}

// Keys returns the prop keys in declaration order.
func (ps Props) Keys() []string {
	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key()
	}
	return keys
}

// UnionKeys returns the keys of a followed by the keys of b not in a.
func UnionKeys(a, b Props) []string {
	keys := a.Keys()
	for _, p := range b {
		if _, ok := a.Get(p.Key()); !ok {
			keys = append(keys, p.Key())
		}
	}
	return keys
}

// valuesEqual compares two prop values for equality.
func valuesEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

package component

import (
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/vdom"
)

// Use creates an instance of f and returns its rendered tree, so a
// component can appear as a child in an H tree.
func Use(f Factory, props map[string]any) *vdom.Node {
	return f(props).Render()
}

// Model binds a form control to key in s: the control shows the current
// value and typing writes it back.
//
//	vdom.Input(component.Model(state, "title"))
func Model(s *reactive.Store, key string) vdom.Props {
	return vdom.Props{
		vdom.Value(s.String(key)),
		vdom.OnInput(func(e *dom.Event) {
			s.Set(key, e.Value)
		}),
	}
}

// View is a function producing a tree.
type View func() *vdom.Node

// Router returns a view that renders the route named by the string at key
// in s. Unknown routes render fallback.
func Router(s *reactive.Store, key string, routes map[string]View, fallback View) View {
	return func() *vdom.Node {
		if v, ok := routes[s.String(key)]; ok {
			return v()
		}
		if fallback == nil {
			return nil
		}
		return fallback()
	}
}

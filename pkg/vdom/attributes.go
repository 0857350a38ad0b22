package vdom

import (
	"strings"

	"github.com/vango-dev/notes/pkg/dom"
)

// Attr creates a generic attribute prop. A nil value leaves it unset.
func Attr(name string, value any) Prop {
	return Prop{Kind: PropAttr, Name: name, Value: value}
}

// Class sets the styling class, joining multiple classes with spaces.
func Class(classes ...string) Prop {
	return Prop{Kind: PropClass, Name: "class", Value: strings.Join(classes, " ")}
}

// Value sets the live value property of a form control.
func Value(v any) Prop {
	return Prop{Kind: PropValue, Name: "value", Value: v}
}

// On binds handler to events of the given type ("click", "input").
func On(event string, handler dom.Listener) Prop {
	return Prop{Kind: PropEvent, Name: strings.ToLower(event), Handler: handler}
}

func ID(id string) Prop               { return Attr("id", id) }
func Href(href string) Prop           { return Attr("href", href) }
func Type(typ string) Prop            { return Attr("type", typ) }
func Name(name string) Prop           { return Attr("name", name) }
func Placeholder(text string) Prop    { return Attr("placeholder", text) }
func For(id string) Prop              { return Attr("for", id) }
func DataAttr(key, value string) Prop { return Attr("data-"+key, value) }
func AriaLabel(label string) Prop     { return Attr("aria-label", label) }

// Disabled sets the disabled attribute when d is true and leaves it unset
// otherwise.
func Disabled(d bool) Prop {
	if !d {
		return Attr("disabled", nil)
	}
	return Attr("disabled", "")
}

func OnClick(h dom.Listener) Prop  { return On("click", h) }
func OnInput(h dom.Listener) Prop  { return On("input", h) }
func OnChange(h dom.Listener) Prop { return On("change", h) }
func OnSubmit(h dom.Listener) Prop { return On("submit", h) }

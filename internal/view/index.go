// Package view holds the notes index rendered by the CLI: a list of notes
// and a single-note page, switched on the store's route key.
package view

import (
	"fmt"

	"github.com/vango-dev/notes/pkg/component"
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/notes"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/vdom"
)

// Routes understood by Index.
const (
	RouteList = "/"
	RouteNote = "/note"
)

// NoteItem renders one entry of the list. Props: id, title and open, a
// func(int64) called when the entry is clicked.
var NoteItem = component.Define(component.Options{
	Name:  "NoteItem",
	Props: []string{"id", "title", "open"},
	Methods: map[string]component.Method{
		"open": func(c *component.Instance, e *dom.Event) {
			e.PreventDefault()
			id, _ := c.Prop("id").(int64)
			if open, ok := c.Prop("open").(func(int64)); ok {
				open(id)
			}
		},
	},
	Render: func(c *component.Instance) *vdom.Node {
		return vdom.Li(vdom.Class("note"),
			vdom.A(
				vdom.Href(fmt.Sprintf("#/notes/%v", c.Prop("id"))),
				vdom.OnClick(c.Method("open")),
				c.Prop("title"),
			),
		)
	},
})

func init() {
	component.Register("NoteItem", NoteItem)
}

// Index returns the root view over state. open handles a selected note,
// typically by calling Binder.LoadNote and switching the route.
func Index(state *reactive.Store, title string, open func(id int64)) component.View {
	list := func() *vdom.Node {
		return vdom.Main(
			vdom.H1(title),
			listBody(state, open),
		)
	}
	note := func() *vdom.Node {
		return vdom.Main(
			vdom.A(vdom.Href("#/"), vdom.OnClick(func(e *dom.Event) {
				e.PreventDefault()
				state.Set(notes.KeyRoute, RouteList)
			}), "Back"),
			noteBody(state),
		)
	}
	return component.Router(state, notes.KeyRoute, map[string]component.View{
		RouteList: list,
		RouteNote: note,
	}, list)
}

func listBody(state *reactive.Store, open func(int64)) *vdom.Node {
	if msg := state.String(notes.KeyNotesError); msg != "" {
		return vdom.P(vdom.Class("error"), msg)
	}
	if state.Bool(notes.KeyNotesLoading) {
		return vdom.P(vdom.Class("loading"), "Loading notes...")
	}
	items := state.List(notes.KeyNotes)
	if items == nil || items.Len() == 0 {
		return vdom.P(vdom.Class("empty"), "No notes yet.")
	}
	return vdom.Ul(vdom.Class("notes"), vdom.Map(items.Values(), func(v any, _ int) *vdom.Node {
		n, ok := v.(*reactive.Store)
		if !ok {
			return nil
		}
		return component.Use(NoteItem, map[string]any{
			"id":    n.Get("id"),
			"title": n.String("title"),
			"open":  open,
		})
	}))
}

func noteBody(state *reactive.Store) *vdom.Node {
	n := state.Store(notes.KeyNote)
	if n == nil {
		return vdom.P(vdom.Class("loading"), "Loading note...")
	}
	return vdom.Section(vdom.Class("note"),
		vdom.H2(n.String("title")),
		vdom.P(n.String("note")),
	)
}

package view

import (
	"testing"

	"github.com/vango-dev/notes/pkg/component"
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/notes"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/render"
)

func newState(values map[string]any) *reactive.Store {
	return reactive.NewRuntime().Wrap(values)
}

func TestIndexListStates(t *testing.T) {
	tests := []struct {
		name  string
		state map[string]any
		want  string
	}{
		{
			name:  "loading",
			state: map[string]any{notes.KeyNotesLoading: true},
			want:  `<main><h1>Notes</h1><p class="loading">Loading notes...</p></main>`,
		},
		{
			name:  "error wins over loading",
			state: map[string]any{notes.KeyNotesLoading: true, notes.KeyNotesError: "unreachable"},
			want:  `<main><h1>Notes</h1><p class="error">unreachable</p></main>`,
		},
		{
			name:  "empty",
			state: map[string]any{notes.KeyNotes: []any{}},
			want:  `<main><h1>Notes</h1><p class="empty">No notes yet.</p></main>`,
		},
		{
			name: "list",
			state: map[string]any{notes.KeyNotes: notes.Maps([]notes.Note{
				{ID: 1, Title: "Groceries"},
				{ID: 2, Title: "Taxes"},
			})},
			want: `<main><h1>Notes</h1><ul class="notes">` +
				`<li class="note"><a href="#/notes/1">Groceries</a></li>` +
				`<li class="note"><a href="#/notes/2">Taxes</a></li></ul></main>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Index(newState(tt.state), "Notes", nil)
			if got := render.HTML(v()); got != tt.want {
				t.Errorf("HTML() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestIndexOpensNote(t *testing.T) {
	state := newState(map[string]any{
		notes.KeyRoute: RouteList,
		notes.KeyNotes: notes.Maps([]notes.Note{{ID: 7, Title: "Books", Note: "Dune"}}),
	})
	var opened int64
	v := Index(state, "Notes", func(id int64) {
		opened = id
		state.Assign(map[string]any{
			notes.KeyNote:  notes.Note{ID: id, Title: "Books", Note: "Dune"}.Map(),
			notes.KeyRoute: RouteNote,
		})
	})

	doc := dom.NewDocument()
	live := render.Materialize(doc, v())
	link := live.QuerySelectorAll("a")[0]
	if link.Click() {
		t.Error("Click() default not prevented")
	}
	if opened != 7 {
		t.Errorf("opened = %d, want 7", opened)
	}

	want := `<main><a href="#/">Back</a><section class="note"><h2>Books</h2><p>Dune</p></section></main>`
	if got := render.HTML(v()); got != want {
		t.Errorf("HTML() = %q\nwant %q", got, want)
	}
}

func TestNoteItemRegistered(t *testing.T) {
	if _, ok := component.Lookup("NoteItem"); !ok {
		t.Error("NoteItem not registered")
	}
}

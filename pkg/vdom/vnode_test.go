package vdom

import (
	"testing"

	"github.com/vango-dev/notes/pkg/dom"
)

func TestHFlattensAndDropsNil(t *testing.T) {
	var missing *Node
	node := H("ul", nil,
		Li("a"),
		nil,
		missing,
		[]*Node{Li("b"), nil, Li("c")},
		[]any{Li("d"), []any{Li("e")}},
	)

	if len(node.Children) != 5 {
		t.Fatalf("len(Children) = %d, want 5", len(node.Children))
	}
	for i, c := range node.Children {
		if c == nil {
			t.Fatalf("child %d is nil", i)
		}
	}
	if got := node.String(); got != `ul[li["a"],li["b"],li["c"],li["d"],li["e"]]` {
		t.Errorf("String() = %s", got)
	}
}

func TestHWrapsPrimitives(t *testing.T) {
	node := Div("hello", 42, 1.5, false)

	if len(node.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(node.Children))
	}
	want := []string{"hello", "42", "1.5"}
	for i, w := range want {
		c := node.Children[i]
		if !c.IsText() || c.Text != w {
			t.Errorf("child %d = %v, want text %q", i, c, w)
		}
	}
}

func TestHCollectsProps(t *testing.T) {
	clicked := false
	node := Button(Class("primary"), "Save", OnClick(func(*dom.Event) { clicked = true }), Attr("type", "submit"))

	if len(node.Children) != 1 {
		t.Errorf("len(Children) = %d, want 1", len(node.Children))
	}
	keys := node.Props.Keys()
	want := []string{"class", "onclick", "type"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	p, ok := node.Prop("onclick")
	if !ok || p.Kind != PropEvent || p.Name != "click" {
		t.Fatalf("onclick prop = %+v", p)
	}
	p.Handler(nil)
	if !clicked {
		t.Error("handler not stored")
	}
}

func TestLaterPropReplacesEarlier(t *testing.T) {
	node := Div(Class("a"), Class("b"))

	if len(node.Props) != 1 {
		t.Fatalf("len(Props) = %d, want 1", len(node.Props))
	}
	if p, _ := node.Prop("class"); p.Value != "b" {
		t.Errorf("class = %v, want b", p.Value)
	}
}

func TestPropEqual(t *testing.T) {
	h := func(*dom.Event) {}
	tests := []struct {
		name string
		a, b Prop
		want bool
	}{
		{"same attr", Attr("title", "x"), Attr("title", "x"), true},
		{"different attr", Attr("title", "x"), Attr("title", "y"), false},
		{"int vs string", Attr("size", 1), Attr("size", "1"), false},
		{"both unset", Attr("title", nil), Attr("title", nil), true},
		{"class", Class("a", "b"), Class("a b"), true},
		{"value", Value("x"), Value("x"), true},
		{"events rebind", OnClick(h), OnClick(h), false},
		{"unset events", OnClick(nil), OnClick(nil), true},
		{"kind differs", Attr("value", "x"), Value("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropIsSet(t *testing.T) {
	if Attr("title", nil).IsSet() {
		t.Error("nil attr should be unset")
	}
	if Disabled(false).IsSet() {
		t.Error("Disabled(false) should be unset")
	}
	if !Disabled(true).IsSet() {
		t.Error("Disabled(true) should be set")
	}
	if OnClick(nil).IsSet() {
		t.Error("nil handler should be unset")
	}
}

func TestUnionKeys(t *testing.T) {
	a := Props{Attr("id", "x"), Class("c")}
	b := Props{Class("d"), Attr("title", "t")}

	got := UnionKeys(a, b)
	want := []string{"id", "class", "title"}
	if len(got) != len(want) {
		t.Fatalf("UnionKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnionKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIfAndMap(t *testing.T) {
	titles := []string{"one", "two"}
	node := Ul(
		If(false, Li("hidden")),
		Map(titles, func(title string, i int) *Node {
			return Li(Textf("%d. %s", i+1, title))
		}),
	)

	if got := node.String(); got != `ul[li["1. one"],li["2. two"]]` {
		t.Errorf("String() = %s", got)
	}
}

func TestNumber(t *testing.T) {
	if Number(7).Text != "7" {
		t.Errorf("Number(7) = %q", Number(7).Text)
	}
	if Number(2.25).Text != "2.25" {
		t.Errorf("Number(2.25) = %q", Number(2.25).Text)
	}
	if Number(uint64(9)).Text != "9" {
		t.Errorf("Number(uint64(9)) = %q", Number(uint64(9)).Text)
	}
}

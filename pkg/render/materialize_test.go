package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/vdom"
)

func TestMaterializeFreshSubtrees(t *testing.T) {
	doc := dom.NewDocument()
	node := vdom.Ul(vdom.Li("A"))

	a := Materialize(doc, node)
	b := Materialize(doc, node)
	if a == b || a.ChildAt(0) == b.ChildAt(0) {
		t.Error("Materialize reused live nodes")
	}
	if a.Parent() != nil {
		t.Error("materialized node is attached")
	}
}

func TestMaterializeNil(t *testing.T) {
	n := Materialize(dom.NewDocument(), nil)
	if n.Type() != dom.TextNode || n.Text() != "" {
		t.Errorf("Materialize(nil) = %v %q, want empty text", n.Type(), n.Text())
	}
}

func TestMaterializeProps(t *testing.T) {
	clicks := 0
	node := vdom.Button(
		vdom.Class("primary", "wide"),
		vdom.Attr("data-count", 3),
		vdom.Attr("title", nil),
		vdom.OnClick(func(*dom.Event) { clicks++ }),
		"Save",
	)

	el := Materialize(dom.NewDocument(), node)

	if got := el.OuterHTML(); got != `<button class="primary wide" data-count="3">Save</button>` {
		t.Errorf("OuterHTML() = %q", got)
	}
	el.Click()
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestMaterializeValueIsProperty(t *testing.T) {
	el := Materialize(dom.NewDocument(), vdom.Textarea(vdom.Value("body")))
	if got := el.Value(); got != "body" {
		t.Errorf("Value() = %q, want body", got)
	}
	if strings.Contains(el.OuterHTML(), "value=") {
		t.Errorf("value rendered as attribute: %s", el.OuterHTML())
	}
}

func TestMaterializeAll(t *testing.T) {
	doc := dom.NewDocument()
	root := doc.CreateRoot("app")
	frag := New(doc).MaterializeAll([]*vdom.Node{vdom.P("a"), nil, vdom.P("b")})

	root.AppendChild(frag)

	if got := root.InnerHTML(); got != "<p>a</p><p>b</p>" {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestHTML(t *testing.T) {
	got := HTML(vdom.Div(vdom.ID("main"), vdom.H1("Notes & more")))
	want := `<div id="main"><h1>Notes &amp; more</h1></div>`
	if got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestWritePage(t *testing.T) {
	var b strings.Builder
	err := WritePage(&b, PageData{
		Title:       "Notes",
		Body:        vdom.P("hello"),
		StyleSheets: []string{"/app.css"},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		`<html lang="en">`,
		`<title>Notes</title>`,
		`<link rel="stylesheet" href="/app.css">`,
		`<div id="app"><p>hello</p></div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}

package component

import (
	"testing"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/vdom"
)

func counter(rt *reactive.Runtime, created *int) Factory {
	return Define(Options{
		Name:  "counter",
		Data:  func() map[string]any { return map[string]any{"count": 0, "label": "Count"} },
		Props: []string{"count"},
		Methods: map[string]Method{
			"inc": func(c *Instance, _ *dom.Event) {
				c.Data.Set("count", c.Data.Int("count")+1)
			},
		},
		Computed: map[string]ComputedFunc{
			"double": func(data *reactive.Store) any { return data.Int("count") * 2 },
		},
		Render: func(c *Instance) *vdom.Node {
			return vdom.Button(vdom.OnClick(c.Method("inc")),
				c.Data.String("label"), ": ", c.Data.Get("count"))
		},
		Created: func(*Instance) {
			if created != nil {
				*created++
			}
		},
		Runtime: rt,
	})
}

func TestDefinePanicsWithoutRender(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Define did not panic")
		}
	}()
	Define(Options{Name: "broken"})
}

func TestInstancesHaveOwnData(t *testing.T) {
	rt := reactive.NewRuntime()
	created := 0
	f := counter(rt, &created)

	a := f(nil)
	b := f(nil)
	a.Data.Set("count", 3)

	if b.Data.Int("count") != 0 {
		t.Errorf("b.count = %d, want 0", b.Data.Int("count"))
	}
	if created != 2 {
		t.Errorf("Created ran %d times, want 2", created)
	}
}

func TestPropsOverrideDeclaredData(t *testing.T) {
	f := counter(reactive.NewRuntime(), nil)

	c := f(map[string]any{"count": 7, "label": "ignored"})

	if got := c.Data.Int("count"); got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
	if got := c.Data.String("label"); got != "Count" {
		t.Errorf("label = %q, want undeclared prop ignored", got)
	}
	if got := c.Prop("label"); got != "ignored" {
		t.Errorf("Prop(label) = %v, want snapshot kept", got)
	}
}

func TestMethodsAndComputed(t *testing.T) {
	c := counter(reactive.NewRuntime(), nil)(nil)

	c.Method("inc")(dom.NewEvent("click"))
	c.Method("inc")(dom.NewEvent("click"))

	if got := c.Data.Int("count"); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := c.Computed("double"); got != 4 {
		t.Errorf("Computed(double) = %v, want 4", got)
	}
	if c.Method("missing") != nil {
		t.Error("Method(missing) is not nil")
	}
	if c.Computed("missing") != nil {
		t.Error("Computed(missing) is not nil")
	}
}

func TestRenderReflectsData(t *testing.T) {
	doc := dom.NewDocument()
	c := counter(reactive.NewRuntime(), nil)(map[string]any{"count": 1})

	el := render.Materialize(doc, c.Render())
	if got := el.TextContent(); got != "Count: 1" {
		t.Errorf("TextContent() = %q", got)
	}

	el.Click()
	el = render.Materialize(doc, c.Render())
	if got := el.TextContent(); got != "Count: 2" {
		t.Errorf("after click TextContent() = %q", got)
	}
}

func TestMountRunsHookOnce(t *testing.T) {
	var mountedOn []*dom.Node
	f := Define(Options{
		Render:  func(*Instance) *vdom.Node { return vdom.P("hi") },
		Mounted: func(_ *Instance, el *dom.Node) { mountedOn = append(mountedOn, el) },
		Runtime: reactive.NewRuntime(),
	})
	c := f(nil)
	root := dom.NewDocument().CreateRoot("app")

	if node := c.Mount(root); node == nil || node.Tag != "p" {
		t.Fatalf("Mount() = %v, want p", node)
	}
	c.Mount(root)

	if len(mountedOn) != 1 || mountedOn[0] != root {
		t.Errorf("Mounted calls = %d, want 1 with root", len(mountedOn))
	}
	if !c.Mounted() {
		t.Error("Mounted() = false")
	}
}

func TestComputedTracksReads(t *testing.T) {
	rt := reactive.NewRuntime()
	c := counter(rt, nil)(nil)

	var seen []any
	rt.RunTracked(func() { seen = append(seen, c.Computed("double")) })
	c.Data.Set("count", 5)

	if len(seen) != 2 || seen[1] != 10 {
		t.Errorf("seen = %v, want [0 10]", seen)
	}
}

func TestRegistry(t *testing.T) {
	f := counter(reactive.NewRuntime(), nil)
	Register("test-counter", f)

	got, ok := Lookup("test-counter")
	if !ok || got == nil {
		t.Fatal("Lookup did not find registered factory")
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup found unregistered name")
	}
	found := false
	for _, name := range Registered() {
		if name == "test-counter" {
			found = true
		}
	}
	if !found {
		t.Error("Registered() missing test-counter")
	}
}

func TestUse(t *testing.T) {
	f := counter(reactive.NewRuntime(), nil)
	tree := vdom.Div(Use(f, map[string]any{"count": 3}))

	if got := render.HTML(tree); got != "<div><button>Count: 3</button></div>" {
		t.Errorf("HTML() = %q", got)
	}
}

func TestModel(t *testing.T) {
	rt := reactive.NewRuntime()
	state := rt.Wrap(map[string]any{"title": "draft"})
	doc := dom.NewDocument()
	root := doc.CreateRoot("app")

	input := root.AppendChild(render.Materialize(doc, vdom.Input(Model(state, "title"))))
	if got := input.Value(); got != "draft" {
		t.Errorf("Value() = %q, want draft", got)
	}

	input.Input("final")
	if got := state.String("title"); got != "final" {
		t.Errorf("title = %q, want final", got)
	}
}

func TestRouter(t *testing.T) {
	rt := reactive.NewRuntime()
	state := rt.Wrap(map[string]any{"route": "/"})
	view := Router(state, "route", map[string]View{
		"/":       func() *vdom.Node { return vdom.H1("Notes") },
		"/create": func() *vdom.Node { return vdom.H1("New note") },
	}, func() *vdom.Node { return vdom.H1("Not found") })

	tests := []struct {
		route string
		want  string
	}{
		{"/", "<h1>Notes</h1>"},
		{"/create", "<h1>New note</h1>"},
		{"/missing", "<h1>Not found</h1>"},
	}
	for _, tt := range tests {
		state.Set("route", tt.route)
		if got := render.HTML(view()); got != tt.want {
			t.Errorf("route %s: HTML() = %q, want %q", tt.route, got, tt.want)
		}
	}
}

package component

import (
	"fmt"
	"maps"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/reactive"
	"github.com/vango-dev/notes/pkg/vdom"
)

// Method is an event handler bound to an instance.
type Method func(c *Instance, e *dom.Event)

// ComputedFunc derives a value from an instance's local data. It is called
// on every access; reads inside it are tracked like any other read.
type ComputedFunc func(data *reactive.Store) any

// RenderFunc produces the instance's tree from its current state.
type RenderFunc func(c *Instance) *vdom.Node

// Options describes a component.
type Options struct {
	// Name identifies the component in logs and the registry.
	Name string

	// Data returns the initial local state. It is called once per instance.
	Data func() map[string]any

	// Props lists the prop names the component accepts. A matching key in
	// the props passed to the factory overwrites the local data entry.
	Props []string

	Methods  map[string]Method
	Computed map[string]ComputedFunc

	// Render is required.
	Render RenderFunc

	// Created runs when the instance is constructed.
	Created func(c *Instance)

	// Mounted runs after the first Mount.
	Mounted func(c *Instance, el *dom.Node)

	// Runtime owns the local data. Defaults to reactive.Default().
	Runtime *reactive.Runtime
}

// Factory creates a component instance from props.
type Factory func(props map[string]any) *Instance

// Instance is one live copy of a component.
type Instance struct {
	// Data is the instance's local reactive state.
	Data *reactive.Store

	// Props is the snapshot of props the instance was created with.
	Props map[string]any

	opts    *Options
	methods map[string]dom.Listener
	mounted bool
}

// Define returns a factory for the component described by opts. It panics
// if opts.Render is nil.
func Define(opts Options) Factory {
	if opts.Render == nil {
		panic(fmt.Sprintf("component: %q has no Render function", opts.Name))
	}
	if opts.Runtime == nil {
		opts.Runtime = reactive.Default()
	}
	if opts.Data == nil {
		opts.Data = func() map[string]any { return map[string]any{} }
	}

	return func(props map[string]any) *Instance {
		return newInstance(&opts, props)
	}
}

func newInstance(opts *Options, props map[string]any) *Instance {
	c := &Instance{
		Data:  opts.Runtime.Wrap(opts.Data()),
		Props: maps.Clone(props),
		opts:  opts,
	}
	if c.Props == nil {
		c.Props = map[string]any{}
	}

	opts.Runtime.Untracked(func() {
		for _, name := range opts.Props {
			if v, ok := props[name]; ok && v != nil {
				c.Data.Set(name, v)
			}
		}
	})

	c.methods = make(map[string]dom.Listener, len(opts.Methods))
	for name, m := range opts.Methods {
		c.methods[name] = func(e *dom.Event) { m(c, e) }
	}

	if opts.Created != nil {
		opts.Created(c)
	}
	return c
}

// Name returns the component name.
func (c *Instance) Name() string {
	return c.opts.Name
}

// Render returns the instance's tree for its current state.
func (c *Instance) Render() *vdom.Node {
	return c.opts.Render(c)
}

// Mount renders the instance and runs the Mounted hook the first time it is
// called. el is the element the tree is destined for; Mount does not attach
// anything to it.
func (c *Instance) Mount(el *dom.Node) *vdom.Node {
	node := c.Render()
	if !c.mounted {
		c.mounted = true
		if c.opts.Mounted != nil {
			c.opts.Mounted(c, el)
		}
	}
	return node
}

// Mounted reports whether Mount has been called.
func (c *Instance) Mounted() bool {
	return c.mounted
}

// Method returns the named method bound to c, or nil if there is none. A
// nil handler is skipped when the tree is materialized.
func (c *Instance) Method(name string) dom.Listener {
	return c.methods[name]
}

// Computed evaluates the named computed value. It returns nil if there is
// none.
func (c *Instance) Computed(name string) any {
	fn, ok := c.opts.Computed[name]
	if !ok {
		return nil
	}
	return fn(c.Data)
}

// Prop returns a prop the instance was created with.
func (c *Instance) Prop(name string) any {
	return c.Props[name]
}

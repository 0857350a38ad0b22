// Package component defines views with their own reactive state.
//
// Define takes Options and returns a Factory. Each call to the factory
// creates an Instance with fresh local data, the caller's props merged into
// it, bound methods and computed values:
//
//	var Counter = component.Define(component.Options{
//	    Name:  "counter",
//	    Data:  func() map[string]any { return map[string]any{"count": 0} },
//	    Props: []string{"count"},
//	    Methods: map[string]component.Method{
//	        "inc": func(c *component.Instance, _ *dom.Event) {
//	            c.Data.Set("count", c.Data.Int("count")+1)
//	        },
//	    },
//	    Render: func(c *component.Instance) *vdom.Node {
//	        return vdom.Button(vdom.OnClick(c.Method("inc")), c.Data.Get("count"))
//	    },
//	})
//
// Instances are not cached: Use creates a new instance on every call, so a
// parent that wants local state to survive re-renders keeps the Instance.
package component

// Package vdom provides the virtual node tree that views produce.
//
// A Node is either a text leaf or an element with a tag, typed props and
// ordered children. Nodes are plain data: the render package materializes
// them into a live document and reconciles two trees against it.
//
// # Building Trees
//
// H is the general constructor. Element helpers take props and children in
// any order:
//
//	Ul(Class("notes"),
//	    Li(Text("Groceries")),
//	    Li(OnClick(open), "Taxes"),
//	)
//
// Children are flattened: nested []*Node and []any values are spliced in,
// nil children are dropped, and strings and numbers become text leaves.
//
// # Props
//
// A Prop is a tagged variant resolved at build time: a plain attribute, the
// styling class, the live "value" property, or an event binding. The
// renderer switches on PropKind instead of inspecting attribute names.
package vdom

// Package dom provides the live document that virtual trees are rendered into.
//
// A Document owns a tree of Nodes backed by golang.org/x/net/html nodes, so a
// rendered tree can always be serialized with OuterHTML. On top of the plain
// HTML tree each Node carries what a browser element carries but markup does
// not: event listeners, live properties (the "value" of an input) and
// expando data used by the renderer.
//
// # Mutations
//
// Every structural, attribute, property and listener change is reported to
// the document's observers as a Mutation. The live preview streams these
// records to connected viewers; tests use them to count DOM effects.
//
// The document is not safe for concurrent use. All mutations happen on the
// goroutine that renders.
package dom

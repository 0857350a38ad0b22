// Package render turns virtual trees into live document nodes and keeps the
// live tree in step with new virtual trees.
//
// # Materializing
//
// Materialize builds a brand-new live subtree for a vdom.Node. Text leaves
// become text nodes, nil becomes an empty text node, and elements get their
// props applied by kind: event props register listeners, the class prop sets
// the class attribute, the value prop sets the live value property, and
// every other prop sets an attribute from its string form. Unset props are
// skipped.
//
// # Patching
//
// Patch reconciles one position of a live parent against an old and a new
// virtual node:
//
//   - no old node: the new node is materialized and appended
//   - no new node: the live child at the index is removed
//   - changed kind, text or tag: the live child is replaced wholesale
//   - otherwise: props are patched in place and children are patched by
//     position
//
// Children are matched by position only. Reordering a list replaces every
// element from the first moved one onward; there is no keyed
// reconciliation.
//
// A live child that is missing at the expected index (the document was
// changed behind the renderer's back) is skipped and logged at debug level.
//
// # Server-Side Rendering
//
// HTML and WritePage serialize a virtual tree by materializing it into a
// detached document.
package render

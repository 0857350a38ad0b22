package render

import (
	"log/slog"

	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/vdom"
)

// listenerDataPrefix prefixes the node data keys holding the listener IDs
// registered for event props.
const listenerDataPrefix = "render:on:"

// Renderer materializes and patches virtual trees in one document.
type Renderer struct {
	doc    *dom.Document
	logger *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for skipped patches.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates a renderer for doc.
func New(doc *dom.Document, opts ...Option) *Renderer {
	r := &Renderer{
		doc:    doc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the renderer's document.
func (r *Renderer) Document() *dom.Document {
	return r.doc
}

// Materialize builds a live subtree for node in doc.
func Materialize(doc *dom.Document, node *vdom.Node) *dom.Node {
	return New(doc).Materialize(node)
}

// Patch reconciles parent's child at index with a renderer for parent's
// document. See Renderer.Patch.
func Patch(parent *dom.Node, next, prev *vdom.Node, index int) {
	New(parent.Document()).Patch(parent, next, prev, index)
}

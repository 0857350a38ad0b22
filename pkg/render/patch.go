package render

import (
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/vdom"
)

// Changed reports whether prev cannot be patched into next in place: their
// kinds differ, both are text with different content, or both are elements
// with different tags.
func Changed(next, prev *vdom.Node) bool {
	if next.Kind != prev.Kind {
		return true
	}
	if next.Kind == vdom.KindText {
		return next.Text != prev.Text
	}
	return next.Tag != prev.Tag
}

// Patch makes parent's child at index reflect next, where prev describes
// what is live there now.
func (r *Renderer) Patch(parent *dom.Node, next, prev *vdom.Node, index int) {
	switch {
	case prev == nil && next == nil:
		return

	case prev == nil:
		parent.AppendChild(r.Materialize(next))

	case next == nil:
		child := parent.ChildAt(index)
		if child == nil {
			r.missing("remove", parent, index)
			return
		}
		_ = parent.RemoveChild(child)

	case Changed(next, prev):
		child := parent.ChildAt(index)
		if child == nil {
			r.missing("replace", parent, index)
			return
		}
		_ = parent.ReplaceChild(r.Materialize(next), child)

	case next.Kind == vdom.KindText:
		// Same text, nothing to do.

	default:
		el := parent.ChildAt(index)
		if el == nil {
			r.missing("update", parent, index)
			return
		}
		r.patchProps(el, next.Props, prev.Props)
		r.patchChildren(el, next.Children, prev.Children)
	}
}

// patchProps updates every prop whose value differs between prev and next.
func (r *Renderer) patchProps(el *dom.Node, next, prev vdom.Props) {
	for _, key := range vdom.UnionKeys(prev, next) {
		np, inNext := next.Get(key)
		op, inPrev := prev.Get(key)

		if inNext && inPrev && np.Equal(op) {
			continue
		}

		if inPrev && (!inNext || np.Kind != op.Kind || np.Kind == vdom.PropEvent) {
			r.clearProp(el, op)
		}
		if !inNext {
			continue
		}

		if np.IsSet() {
			r.applyProp(el, np)
		} else if np.Kind != vdom.PropEvent {
			r.clearProp(el, np)
		}
	}
}

// patchChildren patches children by position. Shared positions and growth
// are handled front to back; surplus old children are removed back to front
// so each removal index still points at the child it describes.
func (r *Renderer) patchChildren(el *dom.Node, next, prev []*vdom.Node) {
	shared := min(len(next), len(prev))
	for i := 0; i < shared; i++ {
		r.Patch(el, next[i], prev[i], i)
	}
	for i := shared; i < len(next); i++ {
		r.Patch(el, next[i], nil, i)
	}
	for i := len(prev) - 1; i >= shared; i-- {
		r.Patch(el, nil, prev[i], i)
	}
}

func (r *Renderer) missing(op string, parent *dom.Node, index int) {
	r.logger.Debug("render: live child missing, skipping",
		"op", op,
		"parent", parent.Tag(),
		"index", index,
		"children", parent.ChildCount(),
	)
}

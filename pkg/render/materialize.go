package render

import (
	"github.com/vango-dev/notes/pkg/dom"
	"github.com/vango-dev/notes/pkg/vdom"
)

// Materialize builds a new, detached live subtree for node. It never touches
// nodes already in the document.
func (r *Renderer) Materialize(node *vdom.Node) *dom.Node {
	if node == nil {
		return r.doc.CreateTextNode("")
	}
	if node.Kind == vdom.KindText {
		return r.doc.CreateTextNode(node.Text)
	}

	el := r.doc.CreateElement(node.Tag)
	for _, p := range node.Props {
		if !p.IsSet() {
			continue
		}
		r.applyProp(el, p)
	}
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		el.AppendChild(r.Materialize(child))
	}
	return el
}

// MaterializeAll materializes nodes into a fragment.
func (r *Renderer) MaterializeAll(nodes []*vdom.Node) *dom.Node {
	frag := r.doc.CreateFragment()
	for _, n := range nodes {
		if n == nil {
			continue
		}
		frag.AppendChild(r.Materialize(n))
	}
	return frag
}

// applyProp sets a set prop on el.
func (r *Renderer) applyProp(el *dom.Node, p vdom.Prop) {
	switch p.Kind {
	case vdom.PropEvent:
		id := el.AddEventListener(p.Name, p.Handler)
		el.SetData(listenerDataPrefix+p.Name, id)
	case vdom.PropClass:
		el.SetAttribute("class", stringify(p.Value))
	case vdom.PropValue:
		el.SetProperty("value", p.Value)
	default:
		el.SetAttribute(p.Name, stringify(p.Value))
	}
}

// clearProp undoes a prop previously applied to el.
func (r *Renderer) clearProp(el *dom.Node, p vdom.Prop) {
	switch p.Kind {
	case vdom.PropEvent:
		key := listenerDataPrefix + p.Name
		if id, ok := el.Data(key).(dom.ListenerID); ok {
			el.RemoveEventListener(p.Name, id)
			el.SetData(key, nil)
		}
	case vdom.PropClass:
		el.RemoveAttribute("class")
	case vdom.PropValue:
		el.SetProperty("value", "")
	default:
		el.RemoveAttribute(p.Name)
	}
}

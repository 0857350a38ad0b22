package protocol

import (
	"fmt"

	"github.com/vango-dev/notes/pkg/dom"
)

// Attr is a name/value pair carried on an element.
type Attr struct {
	Name  string
	Value string
}

// NodeWire is the serializable form of a live subtree. Listeners are not
// carried; the live "value" property travels in Props.
type NodeWire struct {
	Type     dom.NodeType
	Tag      string
	Text     string
	Attrs    []Attr
	Props    []Attr
	Children []*NodeWire
}

// NodeToWire captures n and its descendants.
func NodeToWire(n *dom.Node) *NodeWire {
	if n == nil {
		return nil
	}
	w := &NodeWire{Type: n.Type()}
	switch n.Type() {
	case dom.TextNode:
		w.Text = n.Text()
		return w
	case dom.ElementNode:
		w.Tag = n.Tag()
		for _, a := range n.Attributes() {
			w.Attrs = append(w.Attrs, Attr{Name: a.Key, Value: a.Val})
		}
		if _, ok := n.Property("value"); ok {
			w.Props = append(w.Props, Attr{Name: "value", Value: n.Value()})
		}
	}
	for _, c := range n.ChildNodes() {
		w.Children = append(w.Children, NodeToWire(c))
	}
	return w
}

// Build creates a detached live subtree in doc.
func (w *NodeWire) Build(doc *dom.Document) *dom.Node {
	var n *dom.Node
	switch w.Type {
	case dom.TextNode:
		return doc.CreateTextNode(w.Text)
	case dom.FragmentNode:
		n = doc.CreateFragment()
	default:
		n = doc.CreateElement(w.Tag)
		for _, a := range w.Attrs {
			n.SetAttribute(a.Name, a.Value)
		}
		for _, p := range w.Props {
			n.SetProperty(p.Name, p.Value)
		}
	}
	for _, c := range w.Children {
		n.AppendChild(c.Build(doc))
	}
	return n
}

func encodeNode(e *Encoder, w *NodeWire) {
	if w == nil {
		w = &NodeWire{Type: dom.TextNode}
	}
	e.WriteByte(byte(w.Type))
	switch w.Type {
	case dom.TextNode:
		e.WriteString(w.Text)
		return
	case dom.ElementNode:
		e.WriteString(w.Tag)
		encodeAttrs(e, w.Attrs)
		encodeAttrs(e, w.Props)
	}
	e.WriteInt(len(w.Children))
	for _, c := range w.Children {
		encodeNode(e, c)
	}
}

func encodeAttrs(e *Encoder, attrs []Attr) {
	e.WriteInt(len(attrs))
	for _, a := range attrs {
		e.WriteString(a.Name)
		e.WriteString(a.Value)
	}
}

func decodeNode(d *Decoder, depth int) (*NodeWire, error) {
	if depth > MaxTreeDepth {
		return nil, ErrMaxDepthExceeded
	}
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	w := &NodeWire{Type: dom.NodeType(t)}
	switch w.Type {
	case dom.TextNode:
		w.Text, err = d.ReadString()
		return w, err
	case dom.ElementNode:
		if w.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		if w.Attrs, err = decodeAttrs(d); err != nil {
			return nil, err
		}
		if w.Props, err = decodeAttrs(d); err != nil {
			return nil, err
		}
	case dom.FragmentNode:
	default:
		return nil, fmt.Errorf("protocol: unknown node type %d", t)
	}

	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		w.Children = make([]*NodeWire, n)
	}
	for i := range w.Children {
		if w.Children[i], err = decodeNode(d, depth+1); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func decodeAttrs(d *Decoder) ([]Attr, error) {
	n, err := d.ReadCount()
	if err != nil || n == 0 {
		return nil, err
	}
	attrs := make([]Attr, n)
	for i := range attrs {
		if attrs[i].Name, err = d.ReadString(); err != nil {
			return nil, err
		}
		if attrs[i].Value, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

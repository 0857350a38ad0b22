package dom

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNotChild is returned when a node is not a child of the node operated on.
var ErrNotChild = errors.New("dom: node is not a child of this node")

// NodeType is the kind of a live node.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
	FragmentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is a live node in a Document.
type Node struct {
	doc      *Document
	n        *html.Node
	id       uint64
	parent   *Node
	children []*Node

	listeners  map[string][]listener
	nextListen ListenerID
	props      map[string]any
	data       map[string]any
}

// ID returns the document-unique identifier of the node.
func (n *Node) ID() uint64 {
	return n.id
}

// Document returns the document that created the node.
func (n *Node) Document() *Document {
	return n.doc
}

// HTML returns the underlying html.Node.
func (n *Node) HTML() *html.Node {
	return n.n
}

// Type returns the node type.
func (n *Node) Type() NodeType {
	switch n.n.Type {
	case html.TextNode:
		return TextNode
	case html.DocumentNode:
		return FragmentNode
	default:
		return ElementNode
	}
}

// Tag returns the lower-case tag name of an element, or "" for other nodes.
func (n *Node) Tag() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

// Text returns the content of a text node, or "" for other nodes.
func (n *Node) Text() string {
	if n.n.Type != html.TextNode {
		return ""
	}
	return n.n.Data
}

// Parent returns the parent node, or nil if the node is detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildNodes returns a copy of the node's children.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns the child at index i, or nil if there is none.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// PathFrom returns the child indexes leading from ancestor down to n. ok is
// false when n is not inside ancestor.
func (n *Node) PathFrom(ancestor *Node) (path []int, ok bool) {
	for cur := n; cur != ancestor; cur = cur.parent {
		if cur == nil || cur.parent == nil {
			return nil, false
		}
		path = append(path, cur.parent.indexOf(cur))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// AppendChild appends child as the last child and returns it. A child that
// is attached elsewhere is moved. Appending a fragment moves the fragment's
// children instead.
func (n *Node) AppendChild(child *Node) *Node {
	if child.Type() == FragmentNode {
		for _, c := range child.ChildNodes() {
			n.AppendChild(c)
		}
		return child
	}
	child.detach()
	n.n.AppendChild(child.n)
	child.parent = n
	n.children = append(n.children, child)
	n.doc.emit(Mutation{Kind: MutationAppend, Target: n, Child: child, Index: len(n.children) - 1})
	return child
}

// RemoveChild removes child from n.
func (n *Node) RemoveChild(child *Node) error {
	i := n.indexOf(child)
	if i < 0 {
		return ErrNotChild
	}
	n.removeAt(i)
	n.doc.emit(Mutation{Kind: MutationRemove, Target: n, Child: child, Index: i})
	return nil
}

// ReplaceChild replaces old with newChild. newChild may be a fragment.
func (n *Node) ReplaceChild(newChild, old *Node) error {
	i := n.indexOf(old)
	if i < 0 {
		return ErrNotChild
	}
	if newChild == old {
		return nil
	}

	var incoming []*Node
	if newChild.Type() == FragmentNode {
		incoming = newChild.ChildNodes()
	} else {
		incoming = []*Node{newChild}
	}
	for _, c := range incoming {
		c.detach()
	}

	// old may have shifted if newChild was one of our earlier children.
	i = n.indexOf(old)
	for _, c := range incoming {
		n.n.InsertBefore(c.n, old.n)
		c.parent = n
	}
	n.removeAt(i)
	rest := append([]*Node{}, n.children[i:]...)
	n.children = append(append(n.children[:i], incoming...), rest...)

	n.doc.emit(Mutation{Kind: MutationReplace, Target: n, Child: newChild, Old: old, Index: i})
	return nil
}

// Clear removes every child of n.
func (n *Node) Clear() {
	if len(n.children) == 0 {
		return
	}
	for len(n.children) > 0 {
		n.removeAt(len(n.children) - 1)
	}
	n.doc.emit(Mutation{Kind: MutationClear, Target: n})
}

func (n *Node) removeAt(i int) {
	child := n.children[i]
	n.n.RemoveChild(child.n)
	child.parent = nil
	n.children = append(n.children[:i], n.children[i+1:]...)
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.indexOf(n); i >= 0 {
		p.removeAt(i)
		p.doc.emit(Mutation{Kind: MutationRemove, Target: p, Child: n, Index: i})
	}
}

// SetAttribute sets an attribute on an element.
func (n *Node) SetAttribute(name, value string) {
	for i := range n.n.Attr {
		if n.n.Attr[i].Namespace == "" && n.n.Attr[i].Key == name {
			n.n.Attr[i].Val = value
			n.doc.emit(Mutation{Kind: MutationSetAttr, Target: n, Name: name, Value: value})
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: name, Val: value})
	n.doc.emit(Mutation{Kind: MutationSetAttr, Target: n, Name: name, Value: value})
}

// RemoveAttribute removes an attribute. Removing a missing attribute is a no-op.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.n.Attr {
		if n.n.Attr[i].Namespace == "" && n.n.Attr[i].Key == name {
			n.n.Attr = append(n.n.Attr[:i], n.n.Attr[i+1:]...)
			n.doc.emit(Mutation{Kind: MutationRemoveAttr, Target: n, Name: name})
			return
		}
	}
}

// Attribute returns the value of an attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Attributes returns a copy of the element's attributes in document order.
func (n *Node) Attributes() []html.Attribute {
	out := make([]html.Attribute, len(n.n.Attr))
	copy(out, n.n.Attr)
	return out
}

// ClassName returns the class attribute.
func (n *Node) ClassName() string {
	v, _ := n.Attribute("class")
	return v
}

// SetProperty sets a live property. Properties are not attributes: they
// track state such as an input's current value and are not serialized.
func (n *Node) SetProperty(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	n.doc.emit(Mutation{Kind: MutationSetProperty, Target: n, Name: name, Value: stringify(value)})
}

// Property returns a live property.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// Value returns the live "value" property as a string, falling back to the
// value attribute.
func (n *Node) Value() string {
	if v, ok := n.props["value"]; ok {
		return stringify(v)
	}
	v, _ := n.Attribute("value")
	return v
}

// SetData stores framework data on the node. It is never rendered and does
// not produce a mutation.
func (n *Node) SetData(key string, value any) {
	if n.data == nil {
		n.data = make(map[string]any)
	}
	if value == nil {
		delete(n.data, key)
		return
	}
	n.data[key] = value
}

// Data returns framework data stored with SetData.
func (n *Node) Data(key string) any {
	return n.data[key]
}

// AddEventListener registers fn for events of the given type.
func (n *Node) AddEventListener(typ string, fn Listener) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]listener)
	}
	n.nextListen++
	id := n.nextListen
	n.listeners[typ] = append(n.listeners[typ], listener{id: id, fn: fn})
	n.doc.emit(Mutation{Kind: MutationAddListener, Target: n, Name: typ})
	return id
}

// RemoveEventListener removes a listener registered with AddEventListener.
// It reports whether a listener was removed.
func (n *Node) RemoveEventListener(typ string, id ListenerID) bool {
	ls := n.listeners[typ]
	for i, l := range ls {
		if l.id == id {
			n.listeners[typ] = append(ls[:i], ls[i+1:]...)
			n.doc.emit(Mutation{Kind: MutationRemoveListener, Target: n, Name: typ})
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners for an event type.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch runs the listeners registered for e.Type in registration order.
// It reports false if a listener called PreventDefault.
func (n *Node) Dispatch(e *Event) bool {
	e.Target = n
	ls := append([]listener(nil), n.listeners[e.Type]...)
	for _, l := range ls {
		l.fn(e)
		if e.stopped {
			break
		}
	}
	return !e.defaultPrevented
}

// Click dispatches a click event.
func (n *Node) Click() bool {
	return n.Dispatch(NewEvent("click"))
}

// Input sets the live value, as a user typing would, and dispatches an
// input event carrying it.
func (n *Node) Input(value string) bool {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props["value"] = value
	e := NewEvent("input")
	e.Value = value
	return n.Dispatch(e)
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.n.Type == html.TextNode {
		return n.n.Data
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Render writes the node as HTML.
func (n *Node) Render(w io.Writer) error {
	if n.n.Type == html.DocumentNode {
		for c := n.n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(w, c); err != nil {
				return err
			}
		}
		return nil
	}
	return html.Render(w, n.n)
}

// OuterHTML returns the node serialized as HTML.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	_ = n.Render(&b)
	return b.String()
}

// InnerHTML returns the node's children serialized as HTML.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		_ = c.Render(&b)
	}
	return b.String()
}

// IsConnected reports whether the node is attached to its document's body.
func (n *Node) IsConnected() bool {
	for p := n; p != nil; p = p.parent {
		if p == n.doc.body {
			return true
		}
	}
	return false
}

// find returns the first node in pre-order for which match returns true.
func (n *Node) find(match func(*Node) bool) *Node {
	if n.Type() == ElementNode && match(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// QuerySelectorAll returns every descendant element with the given tag.
func (n *Node) QuerySelectorAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.children {
		c.collect(strings.ToLower(tag), &out)
	}
	return out
}

func (n *Node) collect(tag string, out *[]*Node) {
	if n.Tag() == tag {
		*out = append(*out, n)
	}
	for _, c := range n.children {
		c.collect(tag, out)
	}
}

package vdom

import (
	"strconv"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <li>, etc.
	KindText                // String or number leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a virtual DOM node.
type Node struct {
	Kind     Kind
	Tag      string  // Element tag name
	Props    Props   // Element props in declaration order
	Children []*Node // Never contains nil after H
	Text     string  // Content of a text leaf
}

// Text creates a text leaf.
func Text(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// Textf is Text with fmt formatting.
func Textf(format string, args ...any) *Node {
	return Text(sprintf(format, args...))
}

// Number creates a text leaf holding a number's decimal form.
func Number[T int | int32 | int64 | uint | uint32 | uint64 | float32 | float64](v T) *Node {
	switch n := any(v).(type) {
	case float32:
		return Text(strconv.FormatFloat(float64(n), 'f', -1, 32))
	case float64:
		return Text(strconv.FormatFloat(n, 'f', -1, 64))
	default:
		return Text(sprint(v))
	}
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == KindText
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// Prop returns the prop with the given key (see Prop.Key).
func (n *Node) Prop(key string) (Prop, bool) {
	if n == nil {
		return Prop{}, false
	}
	return n.Props.Get(key)
}

// String returns a compact debug form of the tree, e.g. ul[li["A"],li["B"]].
func (n *Node) String() string {
	var b strings.Builder
	n.writeDebug(&b)
	return b.String()
}

func (n *Node) writeDebug(b *strings.Builder) {
	switch {
	case n == nil:
		b.WriteString("nil")
	case n.Kind == KindText:
		b.WriteString(strconv.Quote(n.Text))
	default:
		b.WriteString(n.Tag)
		if len(n.Children) == 0 {
			return
		}
		b.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			c.writeDebug(b)
		}
		b.WriteByte(']')
	}
}

package vdom

import (
	"fmt"
	"strconv"
)

// H creates an element node. children may hold *Node, []*Node, []any,
// strings, numbers and fmt.Stringers; nested slices are flattened and nil
// entries dropped. A Prop among the children is added to props, so helpers
// can take props and children in one argument list.
//
// H does not validate tag.
func H(tag string, props Props, children ...any) *Node {
	node := &Node{
		Kind:     KindElement,
		Tag:      tag,
		Props:    make(Props, 0, len(props)),
		Children: make([]*Node, 0, len(children)),
	}
	for _, p := range props {
		node.Props = node.Props.Set(p)
	}
	for _, c := range children {
		node.add(c)
	}
	return node
}

// add appends a single child argument, flattening slices.
func (n *Node) add(arg any) {
	switch v := arg.(type) {
	case nil:
	case *Node:
		if v != nil {
			n.Children = append(n.Children, v)
		}
	case []*Node:
		for _, c := range v {
			n.add(c)
		}
	case []any:
		for _, c := range v {
			n.add(c)
		}
	case Prop:
		n.Props = n.Props.Set(v)
	case Props:
		for _, p := range v {
			n.Props = n.Props.Set(p)
		}
	case string:
		n.Children = append(n.Children, Text(v))
	case int:
		n.Children = append(n.Children, Number(v))
	case int64:
		n.Children = append(n.Children, Number(v))
	case uint64:
		n.Children = append(n.Children, Number(v))
	case float64:
		n.Children = append(n.Children, Number(v))
	case bool:
		// false && node patterns; booleans never render.
	case fmt.Stringer:
		n.Children = append(n.Children, Text(v.String()))
	default:
		n.Children = append(n.Children, Text(sprint(v)))
	}
}

// Children normalizes a child list the way H does and returns it.
func Children(children ...any) []*Node {
	holder := &Node{}
	for _, c := range children {
		holder.add(c)
	}
	return holder.Children
}

func sprint(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	default:
		return fmt.Sprint(v)
	}
}

func sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

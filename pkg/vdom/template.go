package vdom

// If returns node when cond is true and nil otherwise. nil children are
// dropped by H.
func If(cond bool, node *Node) *Node {
	if cond {
		return node
	}
	return nil
}

// Map renders each item with fn. A nil result is dropped by H.
func Map[T any](items []T, fn func(item T, index int) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}

package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/notes/pkg/dom"
)

// ErrBadPath is returned by Apply when an op addresses a node the target
// tree does not have.
var ErrBadPath = errors.New("protocol: op path does not resolve")

// Op is a document mutation addressed by position instead of node identity.
// Path lists child indexes from the mount root down to the mutated node.
type Op struct {
	Kind  dom.MutationKind
	Path  []int
	Index int       // Remove, Replace
	Node  *NodeWire // Append, Replace
	Name  string    // attribute and property ops
	Value string
}

// OpFromMutation converts m into an Op relative to root. It must be called
// while m is being observed, before later mutations move its target.
// Listener mutations and changes outside root are not representable.
func OpFromMutation(root *dom.Node, m dom.Mutation) (Op, bool) {
	switch m.Kind {
	case dom.MutationAddListener, dom.MutationRemoveListener:
		return Op{}, false
	}
	path, ok := m.Target.PathFrom(root)
	if !ok {
		return Op{}, false
	}
	op := Op{Kind: m.Kind, Path: path, Index: m.Index, Name: m.Name, Value: m.Value}
	switch m.Kind {
	case dom.MutationAppend, dom.MutationReplace:
		op.Node = NodeToWire(m.Child)
	}
	return op, true
}

// Apply performs op on the tree under root.
func Apply(root *dom.Node, op Op) error {
	target := root
	for _, i := range op.Path {
		if target = target.ChildAt(i); target == nil {
			return fmt.Errorf("%w: %v", ErrBadPath, op.Path)
		}
	}
	doc := root.Document()

	switch op.Kind {
	case dom.MutationAppend:
		target.AppendChild(op.Node.Build(doc))
	case dom.MutationRemove:
		child := target.ChildAt(op.Index)
		if child == nil {
			return fmt.Errorf("%w: %v child %d", ErrBadPath, op.Path, op.Index)
		}
		return target.RemoveChild(child)
	case dom.MutationReplace:
		old := target.ChildAt(op.Index)
		if old == nil {
			return fmt.Errorf("%w: %v child %d", ErrBadPath, op.Path, op.Index)
		}
		return target.ReplaceChild(op.Node.Build(doc), old)
	case dom.MutationSetAttr:
		target.SetAttribute(op.Name, op.Value)
	case dom.MutationRemoveAttr:
		target.RemoveAttribute(op.Name)
	case dom.MutationSetProperty:
		target.SetProperty(op.Name, op.Value)
	case dom.MutationClear:
		target.Clear()
	default:
		return fmt.Errorf("protocol: cannot apply %s", op.Kind)
	}
	return nil
}

// Batch is the ops produced by one render pass.
type Batch struct {
	Seq uint64
	Ops []Op
}

// EncodeBatch returns the FramePatch payload for b.
func EncodeBatch(b Batch) []byte {
	e := NewEncoder()
	e.WriteUvarint(b.Seq)
	e.WriteInt(len(b.Ops))
	for _, op := range b.Ops {
		encodeOp(e, op)
	}
	return e.Bytes()
}

func encodeOp(e *Encoder, op Op) {
	e.WriteByte(byte(op.Kind))
	e.WriteInt(len(op.Path))
	for _, i := range op.Path {
		e.WriteInt(i)
	}
	switch op.Kind {
	case dom.MutationAppend:
		encodeNode(e, op.Node)
	case dom.MutationRemove:
		e.WriteInt(op.Index)
	case dom.MutationReplace:
		e.WriteInt(op.Index)
		encodeNode(e, op.Node)
	case dom.MutationSetAttr, dom.MutationSetProperty:
		e.WriteString(op.Name)
		e.WriteString(op.Value)
	case dom.MutationRemoveAttr:
		e.WriteString(op.Name)
	}
}

// DecodeBatch decodes a FramePatch payload.
func DecodeBatch(data []byte) (Batch, error) {
	d := NewDecoder(data)
	var b Batch
	var err error
	if b.Seq, err = d.ReadUvarint(); err != nil {
		return Batch{}, err
	}
	n, err := d.ReadCount()
	if err != nil {
		return Batch{}, err
	}
	b.Ops = make([]Op, n)
	for i := range b.Ops {
		if b.Ops[i], err = decodeOp(d); err != nil {
			return Batch{}, fmt.Errorf("protocol: op %d: %w", i, err)
		}
	}
	if !d.EOF() {
		return Batch{}, ErrTrailingBytes
	}
	return b, nil
}

func decodeOp(d *Decoder) (Op, error) {
	k, err := d.ReadByte()
	if err != nil {
		return Op{}, err
	}
	op := Op{Kind: dom.MutationKind(k)}
	n, err := d.ReadCount()
	if err != nil {
		return Op{}, err
	}
	if n > MaxTreeDepth {
		return Op{}, ErrMaxDepthExceeded
	}
	op.Path = make([]int, n)
	for i := range op.Path {
		if op.Path[i], err = d.ReadInt(); err != nil {
			return Op{}, err
		}
	}

	switch op.Kind {
	case dom.MutationAppend:
		op.Node, err = decodeNode(d, 0)
	case dom.MutationRemove:
		op.Index, err = d.ReadInt()
	case dom.MutationReplace:
		if op.Index, err = d.ReadInt(); err == nil {
			op.Node, err = decodeNode(d, 0)
		}
	case dom.MutationSetAttr, dom.MutationSetProperty:
		if op.Name, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	case dom.MutationRemoveAttr:
		op.Name, err = d.ReadString()
	case dom.MutationClear:
	default:
		err = fmt.Errorf("protocol: unknown op kind %d", k)
	}
	return op, err
}

// EncodeSnapshot returns the FrameSnapshot payload for the children of root.
func EncodeSnapshot(seq uint64, root *dom.Node) []byte {
	e := NewEncoder()
	e.WriteUvarint(seq)
	frag := &NodeWire{Type: dom.FragmentNode}
	for _, c := range root.ChildNodes() {
		frag.Children = append(frag.Children, NodeToWire(c))
	}
	encodeNode(e, frag)
	return e.Bytes()
}

// DecodeSnapshot decodes a FrameSnapshot payload. The returned node is a
// fragment holding the mount root's children.
func DecodeSnapshot(data []byte) (uint64, *NodeWire, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, err
	}
	w, err := decodeNode(d, 0)
	if err != nil {
		return 0, nil, err
	}
	if w.Type != dom.FragmentNode {
		return 0, nil, fmt.Errorf("protocol: snapshot root is %s", w.Type)
	}
	if !d.EOF() {
		return 0, nil, ErrTrailingBytes
	}
	return seq, w, nil
}

package dom

// MutationKind identifies the kind of change recorded in a Mutation.
type MutationKind uint8

const (
	MutationAppend         MutationKind = 0x01 // Child appended to Target
	MutationRemove         MutationKind = 0x02 // Child removed from Target
	MutationReplace        MutationKind = 0x03 // Child replaced Old in Target
	MutationSetAttr        MutationKind = 0x04 // Attribute Name set to Value
	MutationRemoveAttr     MutationKind = 0x05 // Attribute Name removed
	MutationSetProperty    MutationKind = 0x06 // Live property Name set to Value
	MutationAddListener    MutationKind = 0x07 // Listener for event Name added
	MutationRemoveListener MutationKind = 0x08 // Listener for event Name removed
	MutationClear          MutationKind = 0x09 // All children of Target removed
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationAppend:
		return "Append"
	case MutationRemove:
		return "Remove"
	case MutationReplace:
		return "Replace"
	case MutationSetAttr:
		return "SetAttr"
	case MutationRemoveAttr:
		return "RemoveAttr"
	case MutationSetProperty:
		return "SetProperty"
	case MutationAddListener:
		return "AddListener"
	case MutationRemoveListener:
		return "RemoveListener"
	case MutationClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// Mutation is a single change applied to the live document.
type Mutation struct {
	Kind   MutationKind
	Target *Node // Node that was changed (the parent for structural changes)
	Child  *Node // Appended, removed or inserted node
	Old    *Node // Replaced node (MutationReplace only)
	Index  int   // Child position for Remove and Replace
	Name   string
	Value  string
}

// MutationObserver receives mutations as they are applied.
type MutationObserver func(m Mutation)

// Recorder is a MutationObserver that keeps every mutation it sees.
type Recorder struct {
	Mutations []Mutation
}

// Observe implements MutationObserver.
func (r *Recorder) Observe(m Mutation) {
	r.Mutations = append(r.Mutations, m)
}

// Count returns how many recorded mutations have the given kind.
func (r *Recorder) Count(kind MutationKind) int {
	n := 0
	for _, m := range r.Mutations {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded mutations.
func (r *Recorder) Reset() {
	r.Mutations = r.Mutations[:0]
}

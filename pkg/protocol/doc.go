// Package protocol is the binary wire format of the live preview.
//
// A viewer connects, receives one FrameSnapshot holding the mount root's
// children, then one FramePatch per render pass. Patches carry the
// document mutations of that pass as Ops addressed by child-index paths
// from the mount root, so a viewer holding the same tree can replay them
// without sharing node identities.
//
// # Wire Format
//
// Every message is a Frame:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Integers in payloads are unsigned varints; strings are varint
// length-prefixed. A patch payload is:
//
//	[Seq][OpCount]{[Kind][PathLen]{[Index]}[operands]}
//
// where the operands depend on Kind: a node tree for Append, an index and a
// node tree for Replace, an index for Remove, a name and value for SetAttr
// and SetProperty, a name for RemoveAttr and nothing for Clear. Listener
// mutations never reach the wire.
//
// Decoding enforces MaxStringLen, MaxCollectionCount and MaxTreeDepth so a
// malformed payload cannot force large allocations or deep recursion.
package protocol

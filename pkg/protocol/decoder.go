package protocol

import (
	"errors"
	"io"
)

// Limits applied while decoding untrusted input.
const (
	// MaxStringLen bounds a single length-prefixed string.
	MaxStringLen = 4 * 1024 * 1024

	// MaxCollectionCount bounds any element count (children, attributes,
	// path steps, operations).
	MaxCollectionCount = 100_000

	// MaxTreeDepth bounds node nesting in snapshots and inserted subtrees.
	MaxTreeDepth = 256
)

// Decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrStringTooLong      = errors.New("protocol: string exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrMaxDepthExceeded   = errors.New("protocol: maximum nesting depth exceeded")
	ErrTrailingBytes      = errors.New("protocol: trailing bytes after payload")
)

// Decoder reads protocol values from a byte slice.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether every byte has been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads a varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := Uvarint(d.buf[d.pos:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.pos += n
	return v, nil
}

// ReadInt reads a varint that must fit a collection index.
func (d *Decoder) ReadInt() (int, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	return int(v), nil
}

// ReadString reads a length-prefixed string.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > MaxStringLen {
		return "", ErrStringTooLong
	}
	if n > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

// ReadUint32 reads a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos : d.pos+4]
	d.pos += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadCount reads an element count. Every element takes at least one byte,
// so a count larger than the unread input is rejected up front.
func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadInt()
	if err != nil {
		return 0, err
	}
	if n > d.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	return n, nil
}

package protocol

// Encoder appends protocol values to a growing buffer.
type Encoder struct {
	buf     []byte
	scratch [MaxVarintLen]byte
}

// NewEncoder returns an encoder with a small preallocated buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the buffer and keeps its capacity.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded bytes. The slice aliases the encoder's buffer
// until the next write or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends one byte. It never fails.
func (e *Encoder) WriteByte(b byte) error {
	e.buf = append(e.buf, b)
	return nil
}

// WriteUvarint appends v as a varint.
func (e *Encoder) WriteUvarint(v uint64) {
	n := PutUvarint(e.scratch[:], v)
	e.buf = append(e.buf, e.scratch[:n]...)
}

// WriteInt appends a non-negative int as a varint. Negative values are
// written as zero.
func (e *Encoder) WriteInt(v int) {
	if v < 0 {
		v = 0
	}
	e.WriteUvarint(uint64(v))
}

// WriteString appends a length-prefixed string.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteUint32 appends v big-endian.
func (e *Encoder) WriteUint32(v uint32) {
	e.buf = append(e.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

package protocol

// MaxVarintLen is the longest encoding of a uint64.
const MaxVarintLen = 10

// PutUvarint writes v into buf using 7 bits per byte, low groups first, and
// returns the number of bytes written. buf must hold MaxVarintLen bytes.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for ; v >= 0x80; i++ {
		buf[i] = byte(v) | 0x80
		v >>= 7
	}
	buf[i] = byte(v)
	return i + 1
}

// Uvarint reads a varint from the front of buf. n is the number of bytes
// consumed; n == 0 means buf ended mid-value and n < 0 means overflow.
func Uvarint(buf []byte) (v uint64, n int) {
	var shift uint
	for i, b := range buf {
		if i == MaxVarintLen {
			return 0, -(i + 1)
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// UvarintLen returns the encoded size of v.
func UvarintLen(v uint64) int {
	n := 1
	for ; v >= 0x80; v >>= 7 {
		n++
	}
	return n
}

package protocol

import (
	"errors"
	"fmt"
	"io"
)

// FrameType identifies the payload carried by a frame.
type FrameType uint8

const (
	FrameSnapshot FrameType = 0x01 // Full tree of the mount point
	FramePatch    FrameType = 0x02 // Batch of mutation ops
	FramePing     FrameType = 0x03 // Keepalive, empty payload
	FrameError    FrameType = 0x04 // UTF-8 error message
)

// String returns the string representation of the FrameType.
func (ft FrameType) String() string {
	switch ft {
	case FrameSnapshot:
		return "Snapshot"
	case FramePatch:
		return "Patch"
	case FramePing:
		return "Ping"
	case FrameError:
		return "Error"
	default:
		return fmt.Sprintf("FrameType(%d)", uint8(ft))
	}
}

// FrameFlags modify how a frame is handled.
type FrameFlags uint8

const (
	// FlagResync marks a snapshot sent because the viewer fell behind and
	// patch frames were dropped.
	FlagResync FrameFlags = 1 << 0
)

const (
	// FrameHeaderSize is type, flags and a big-endian uint32 length.
	FrameHeaderSize = 6

	// MaxPayloadSize bounds a single frame payload.
	MaxPayloadSize = 8 * 1024 * 1024
)

// ErrFrameTooLarge is returned for payloads above MaxPayloadSize.
var ErrFrameTooLarge = errors.New("protocol: frame payload too large")

// Frame is one protocol message.
//
//	+--------+--------+---------------------------+---------------+
//	| type   | flags  | length (uint32, BE)       | payload ...   |
//	+--------+--------+---------------------------+---------------+
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame returns an unflagged frame.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() ([]byte, error) {
	if len(f.Payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.Bytes(), nil
}

// DecodeFrame decodes exactly one frame from data.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	f, err := readFrame(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return f, nil
}

func readFrame(d *Decoder) (*Frame, error) {
	ft, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	if n > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	if int(n) > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, n)
	copy(payload, d.buf[d.pos:])
	d.pos += int(n)
	return &Frame{Type: FrameType(ft), Flags: FrameFlags(flags), Payload: payload}, nil
}

// ReadFrame reads one frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := uint32(header[2])<<24 | uint32(header[3])<<16 | uint32(header[4])<<8 | uint32(header[5])
	if n > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return &Frame{Type: FrameType(header[0]), Flags: FrameFlags(header[1]), Payload: payload}, nil
}

// WriteFrame writes f to w.
func WriteFrame(w io.Writer, f *Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

package udp

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

// NewFrame returns a Frame over buf. An error is returned if buf is shorter
// than the 8-byte UDP header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame is an accessor over a UDP datagram (RFC 768): an 8-byte header
// addressed by fixed offset followed by the payload.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was constructed with.
func (f Frame) RawData() []byte { return f.buf }

// SourcePort returns the source port field.
func (f Frame) SourcePort() uint16 { return binary.BigEndian.Uint16(f.buf[0:2]) }

// SetSourcePort sets the source port field.
func (f Frame) SetSourcePort(p uint16) { binary.BigEndian.PutUint16(f.buf[0:2], p) }

// DestinationPort returns the destination port field.
func (f Frame) DestinationPort() uint16 { return binary.BigEndian.Uint16(f.buf[2:4]) }

// SetDestinationPort sets the destination port field.
func (f Frame) SetDestinationPort(p uint16) { binary.BigEndian.PutUint16(f.buf[2:4], p) }

// Length returns the UDP length field (header + payload), per spec.md §4.5.
func (f Frame) Length() uint16 { return binary.BigEndian.Uint16(f.buf[4:6]) }

// SetLength sets the UDP length field.
func (f Frame) SetLength(length uint16) { binary.BigEndian.PutUint16(f.buf[4:6], length) }

// Checksum returns the UDP checksum field.
func (f Frame) Checksum() uint16 { return binary.BigEndian.Uint16(f.buf[6:8]) }

// SetChecksum sets the UDP checksum field.
func (f Frame) SetChecksum(c uint16) { binary.BigEndian.PutUint16(f.buf[6:8], c) }

// Payload returns the bytes following the 8-byte header, sized by the
// Length field. Callers must call ValidateSize first.
func (f Frame) Payload() []byte { return f.buf[sizeHeader:f.Length()] }

// ValidateSize checks the Length field is at least the header size and does
// not run past the buffer, per spec.md §7.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	l := f.Length()
	if l < sizeHeader {
		v.AddError(slashnet.ErrShortBuffer)
	}
	if int(l) > len(f.buf) {
		v.AddError(slashnet.ErrShortBuffer)
	}
}

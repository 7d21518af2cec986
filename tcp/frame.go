package tcp

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

// NewFrame returns a Frame over buf. An error is returned if buf is shorter
// than the 20-byte fixed TCP header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame is an accessor over a TCP segment (RFC 9293): fixed 20-byte header,
// an options block sized by the data-offset field, then payload.
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

// Seq returns the sequence number field.
func (f Frame) Seq() uint32 { return binary.BigEndian.Uint32(f.buf[4:8]) }

// SetSeq sets the sequence number field.
func (f Frame) SetSeq(v uint32) { binary.BigEndian.PutUint32(f.buf[4:8], v) }

// Ack returns the acknowledgment number field.
func (f Frame) Ack() uint32 { return binary.BigEndian.Uint32(f.buf[8:12]) }

// SetAck sets the acknowledgment number field.
func (f Frame) SetAck(v uint32) { binary.BigEndian.PutUint32(f.buf[8:12], v) }

// DataOffsetAndFlags returns the header length in 32-bit words and the
// control-bit field.
func (f Frame) DataOffsetAndFlags() (offsetWords uint8, flags Flags) {
	v := binary.BigEndian.Uint16(f.buf[12:14])
	return uint8(v >> 12), Flags(v).Mask()
}

// SetDataOffsetAndFlags sets the data-offset and flags fields.
func (f Frame) SetDataOffsetAndFlags(offsetWords uint8, flags Flags) {
	v := uint16(offsetWords)<<12 | uint16(flags.Mask())
	binary.BigEndian.PutUint16(f.buf[12:14], v)
}

// HeaderLength returns the header length in bytes, including options.
func (f Frame) HeaderLength() int {
	offsetWords, _ := f.DataOffsetAndFlags()
	return 4 * int(offsetWords)
}

// WindowSize returns the advertised window field.
func (f Frame) WindowSize() uint16 { return binary.BigEndian.Uint16(f.buf[14:16]) }

// SetWindowSize sets the window field.
func (f Frame) SetWindowSize(v uint16) { binary.BigEndian.PutUint16(f.buf[14:16], v) }

// Checksum returns the checksum field.
func (f Frame) Checksum() uint16 { return binary.BigEndian.Uint16(f.buf[16:18]) }

// SetChecksum sets the checksum field.
func (f Frame) SetChecksum(cs uint16) { binary.BigEndian.PutUint16(f.buf[16:18], cs) }

// UrgentPtr returns the urgent pointer field.
func (f Frame) UrgentPtr() uint16 { return binary.BigEndian.Uint16(f.buf[18:20]) }

// SetUrgentPtr sets the urgent pointer field.
func (f Frame) SetUrgentPtr(up uint16) { binary.BigEndian.PutUint16(f.buf[18:20], up) }

// Options returns the option bytes between the fixed header and the
// payload. Call ValidateSize first to avoid a panic on a malformed offset.
func (f Frame) Options() []byte { return f.buf[sizeHeader:f.HeaderLength()] }

// Payload returns the bytes following the header (fixed part + options).
// Call ValidateSize first to avoid a panic on a malformed offset.
func (f Frame) Payload() []byte { return f.buf[f.HeaderLength():] }

// ValidateSize checks the data-offset field against the actual buffer
// length, per spec.md §7's pre-parse length check discipline.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	off := f.HeaderLength()
	if off < sizeHeader {
		v.AddError(slashnet.ErrShortBuffer)
	}
	if off > len(f.buf) {
		v.AddError(slashnet.ErrShortBuffer)
	}
}

package ethernet

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

// NewFrame returns a Frame over buf. An error is returned if buf is shorter
// than the 14-byte Ethernet header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame is an accessor over the first 14 bytes of an Ethernet II frame
// (destination, source, EtherType), addressing fields by the fixed offsets
// spec.md §3 specifies. The zero value is not usable; construct with
// NewFrame.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was constructed with.
func (f Frame) RawData() []byte { return f.buf }

// HeaderLength is always 14 for this module (no VLAN support).
func (f Frame) HeaderLength() int { return sizeHeader }

// Payload returns the bytes following the 14-byte header.
func (f Frame) Payload() []byte { return f.buf[sizeHeader:] }

// Destination returns a pointer into the frame's destination MAC field so
// callers can both read and write it in place.
func (f Frame) Destination() *slashnet.MAC { return (*slashnet.MAC)(f.buf[0:6]) }

// Source returns a pointer into the frame's source MAC field.
func (f Frame) Source() *slashnet.MAC { return (*slashnet.MAC)(f.buf[6:12]) }

// IsBroadcast reports whether the destination address is ff:ff:ff:ff:ff:ff.
func (f Frame) IsBroadcast() bool { return *f.Destination() == slashnet.BroadcastMAC }

// EtherTypeOrSize returns the EtherType/length field (bytes 12:14).
func (f Frame) EtherTypeOrSize() slashnet.EtherType {
	return slashnet.EtherType(binary.BigEndian.Uint16(f.buf[12:14]))
}

// SetEtherType sets the EtherType field.
func (f Frame) SetEtherType(et slashnet.EtherType) {
	binary.BigEndian.PutUint16(f.buf[12:14], uint16(et))
}

// ValidateSize checks the frame's EtherType/size field against the actual
// buffer length, per spec.md §7's pre-parse length check discipline.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	sz := f.EtherTypeOrSize()
	if sz.IsSize() && len(f.buf) < int(sz) {
		v.AddError(slashnet.ErrShortBuffer)
	}
}

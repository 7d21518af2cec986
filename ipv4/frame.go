package ipv4

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

// NewFrame returns a Frame over buf. An error is returned if buf is shorter
// than the 20-byte IPv4 header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame is an accessor over a fixed, option-less 20-byte IPv4 header
// (RFC 791). The zero value is not usable; construct with NewFrame.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was constructed with.
func (f Frame) RawData() []byte { return f.buf }

// HeaderLength is always 20 for this module: no IP options are emitted or
// expected, per spec.md §4.2.
func (f Frame) HeaderLength() int { return sizeHeader }

func (f Frame) ihl() uint8 { return f.buf[0] & 0xf }

// Version returns the IP version nibble, expected to always be 4.
func (f Frame) Version() uint8 { return f.buf[0] >> 4 }

// SetVersionAndIHL writes the version/IHL byte. IHL should be 5.
func (f Frame) SetVersionAndIHL(version, ihl uint8) { f.buf[0] = version<<4 | ihl&0xf }

// SetToS sets the Type-of-Service byte. This module always writes 0.
func (f Frame) SetToS(tos uint8) { f.buf[1] = tos }

// TotalLength is the entire IP datagram length, header through payload.
func (f Frame) TotalLength() uint16 { return binary.BigEndian.Uint16(f.buf[2:4]) }

// SetTotalLength sets TotalLength. See Frame.TotalLength.
func (f Frame) SetTotalLength(tl uint16) { binary.BigEndian.PutUint16(f.buf[2:4], tl) }

// ID is the fragmentation identification field. Per spec.md §4.2 this
// module only ever writes the low byte (the high byte is always zero).
func (f Frame) ID() uint16 { return binary.BigEndian.Uint16(f.buf[4:6]) }

// SetID sets the low byte of the ID field, per spec.md §4.2 ("id_nr (low
// byte only; high byte zero)").
func (f Frame) SetID(id uint8) {
	f.buf[4] = 0
	f.buf[5] = id
}

// Flags returns the 3-bit flags field packed with the fragment offset.
func (f Frame) Flags() slashnet.IPv4Flags {
	return slashnet.IPv4Flags(binary.BigEndian.Uint16(f.buf[6:8]))
}

// SetFlags sets the flags+fragment-offset field.
func (f Frame) SetFlags(flags slashnet.IPv4Flags) {
	binary.BigEndian.PutUint16(f.buf[6:8], uint16(flags))
}

// TTL returns the time-to-live field.
func (f Frame) TTL() uint8 { return f.buf[8] }

// SetTTL sets the time-to-live field.
func (f Frame) SetTTL(ttl uint8) { f.buf[8] = ttl }

// Protocol returns the encapsulated transport protocol.
func (f Frame) Protocol() slashnet.IPProto { return slashnet.IPProto(f.buf[9]) }

// SetProtocol sets the encapsulated transport protocol.
func (f Frame) SetProtocol(proto slashnet.IPProto) { f.buf[9] = uint8(proto) }

// Checksum returns the header checksum field.
func (f Frame) Checksum() uint16 { return binary.BigEndian.Uint16(f.buf[10:12]) }

// SetChecksum sets the header checksum field.
func (f Frame) SetChecksum(cs uint16) { binary.BigEndian.PutUint16(f.buf[10:12], cs) }

// CalculateHeaderChecksum computes the IP header checksum over exactly the
// 20 header bytes, with the checksum field treated as zero, per spec.md
// §4.2.
func (f Frame) CalculateHeaderChecksum() uint16 {
	var hdr [sizeHeader]byte
	copy(hdr[:], f.buf[:sizeHeader])
	hdr[10], hdr[11] = 0, 0
	return slashnet.Checksum(slashnet.ChecksumIP, hdr[:], slashnet.IP{}, slashnet.IP{}, 0)
}

// Source returns a pointer into the frame's source address field.
func (f Frame) Source() *slashnet.IP { return (*slashnet.IP)(f.buf[12:16]) }

// Destination returns a pointer into the frame's destination address field.
func (f Frame) Destination() *slashnet.IP { return (*slashnet.IP)(f.buf[16:20]) }

// Payload returns the IP payload (transport header + data), per the
// TotalLength field. Call ValidateSize first to avoid a panic on a
// malformed TotalLength.
func (f Frame) Payload() []byte {
	return f.buf[sizeHeader:f.TotalLength()]
}

// ValidateSize checks TotalLength/IHL against the actual buffer length, per
// spec.md §7's pre-parse length check discipline.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	tl := f.TotalLength()
	if tl < sizeHeader {
		v.AddError(slashnet.ErrBadIHL)
	}
	if int(tl) > len(f.buf) {
		v.AddError(slashnet.ErrShortBuffer)
	}
	if f.ihl() < 5 {
		v.AddError(slashnet.ErrBadIHL)
	}
	if f.Version() != 4 {
		v.AddError(slashnet.ErrBadIPVersion)
	}
}

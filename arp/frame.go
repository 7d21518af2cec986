package arp

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

// NewFrame returns a Frame over buf. An error is returned if buf is shorter
// than the 28-byte IPv4-over-Ethernet ARP packet.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeaderV4 {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame is an accessor over a 28-byte ARP packet carrying Ethernet hardware
// addresses and IPv4 protocol addresses (RFC 826). The zero value is not
// usable; construct with NewFrame.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was constructed with.
func (f Frame) RawData() []byte { return f.buf }

// SetHeader writes the hardware/protocol type+length fields for the
// Ethernet/IPv4 combination this module always uses.
func (f Frame) SetHeader() {
	binary.BigEndian.PutUint16(f.buf[0:2], hwTypeEthernet)
	binary.BigEndian.PutUint16(f.buf[2:4], uint16(slashnet.EtherTypeIPv4))
	f.buf[4] = slashnet.MACLen
	f.buf[5] = slashnet.IPLen
}

// Operation returns the ARP opcode (request=1, reply=2).
func (f Frame) Operation() slashnet.ARPOp {
	return slashnet.ARPOp(binary.BigEndian.Uint16(f.buf[6:8]))
}

// SetOperation sets the ARP opcode.
func (f Frame) SetOperation(op slashnet.ARPOp) {
	binary.BigEndian.PutUint16(f.buf[6:8], uint16(op))
}

// SenderHardware returns a pointer to the sender's MAC address field.
func (f Frame) SenderHardware() *slashnet.MAC { return (*slashnet.MAC)(f.buf[8:14]) }

// SenderProtocol returns a pointer to the sender's IPv4 address field.
func (f Frame) SenderProtocol() *slashnet.IP { return (*slashnet.IP)(f.buf[14:18]) }

// TargetHardware returns a pointer to the target's MAC address field.
func (f Frame) TargetHardware() *slashnet.MAC { return (*slashnet.MAC)(f.buf[18:24]) }

// TargetProtocol returns a pointer to the target's IPv4 address field.
func (f Frame) TargetProtocol() *slashnet.IP { return (*slashnet.IP)(f.buf[24:28]) }

// ValidateSize checks buf is at least the fixed 28-byte IPv4 ARP size, per
// spec.md §7's pre-parse length check discipline.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	if len(f.buf) < sizeHeaderV4 {
		v.AddError(slashnet.ErrShortBuffer)
	}
}

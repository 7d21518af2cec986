// Package slashnet provides the shared wire-format schema (fixed byte
// offsets, EtherType/IPProto constants, ARP opcodes) and the checksum
// routine used by every protocol layer in this module. It has no
// goroutines and makes no allocations.
package slashnet

// EtherType identifies the payload carried by an Ethernet frame.
type EtherType uint16

const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
)

// IsSize reports whether et is actually an IEEE 802.3 length field rather
// than an EtherType (values <= 1500 are lengths).
func (et EtherType) IsSize() bool { return et <= 1500 }

// IPProto is an IPv4 protocol number (RFC 790).
type IPProto uint8

const (
	IPProtoICMP IPProto = 1
	IPProtoTCP  IPProto = 6
	IPProtoUDP  IPProto = 17
)

// ARPOp is the ARP "operation" field (RFC 826).
type ARPOp uint16

const (
	ARPRequest ARPOp = 1
	ARPReply   ARPOp = 2
)

// IPv4Flags holds the 3-bit flags field packed into the high bits of the
// fragment-offset word.
type IPv4Flags uint16

const (
	IPv4FlagDontFragment  IPv4Flags = 0x4000
	IPv4FlagMoreFragments IPv4Flags = 0x2000
)

// Fixed byte offsets, per spec.md §3: all protocol layers address a shared
// frame buffer by compile-time offset rather than by a dynamically parsed
// header chain.
const (
	OffEthernet = 0  // start of destination MAC
	OffIPv4     = 14 // start of IPv4 header
	OffIPPayload = 34 // start of IPv4 payload (UDP/TCP/ICMP header)

	SizeEthernetHeader = 14
	SizeIPv4Header     = 20 // fixed, IHL==5
	SizeUDPHeader      = 8
	SizeTCPHeaderMin   = 20
	SizeARPv4          = 28

	MACLen = 6
	IPLen  = 4
)

// MAC is an Ethernet hardware address.
type MAC [MACLen]byte

// BroadcastMAC is the Ethernet broadcast address ff:ff:ff:ff:ff:ff.
var BroadcastMAC = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// IsZero reports whether m is the all-zero address.
func (m MAC) IsZero() bool { return m == MAC{} }

// IP is an IPv4 address.
type IP [IPLen]byte

// IsZero reports whether ip is 0.0.0.0.
func (ip IP) IsZero() bool { return ip == IP{} }

const (
	// IPTTL is the TTL written into every packet this module originates.
	IPTTL = 64
)

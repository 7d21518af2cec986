// Package tcp implements the one-segment-exchange TCP responder spec.md
// §4.7 describes: no retransmission, no congestion control, no multi-segment
// connection table. Every non-handshake segment this module sends carries
// FIN, forcing the peer to close.
package tcp

import "github.com/slashdev/slashnet"

const sizeHeader = slashnet.SizeTCPHeaderMin

// Flags is the 6-bit TCP control-bit field (URG/ACK/PSH/RST/SYN/FIN).
type Flags uint16

const (
	FlagFIN Flags = 1 << iota
	FlagSYN
	FlagRST
	FlagPSH
	FlagACK
	FlagURG
)

const flagMask = 0x3f

func (f Flags) Mask() Flags { return f & flagMask }

const (
	// WindowSize is the fixed receive window this module advertises, per
	// spec.md §4.7/§8.
	WindowSize = 1024
	// MSS is the fixed maximum-segment-size option value this module
	// advertises on SYN/SYN-ACK, per spec.md §4.7/§8.
	MSS = 1024
)

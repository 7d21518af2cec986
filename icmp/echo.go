// Package icmp implements the single ICMP behavior this device needs: echo
// reply to an echo request, in place on the receive buffer, per spec.md
// §4.4. No other ICMP type is handled.
package icmp

import (
	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/ipv4"
)

const (
	typeEchoRequest = 8
	typeEchoReply   = 0
)

// EchoReply turns an ICMP echo request already sitting in buf (a full
// Ethernet+IPv4+ICMP frame of frameLen bytes) into an echo reply in place,
// and returns the length to transmit (always frameLen) and true. It returns
// false, leaving buf untouched, for any ICMP type other than echo request.
//
// The checksum is not recomputed from scratch: type 8 (0x08) changing to
// type 0 (0x00) is the only byte that changes, so the checksum is updated by
// adding 0x0800 with carry into the high byte, per spec.md §4.4.
func EchoReply(myMAC slashnet.MAC, buf []byte, frameLen int) (txLen int, ok bool) {
	efrm, err := ethernet.NewFrame(buf[:frameLen])
	if err != nil {
		return 0, false
	}
	ifrm, err := ipv4.NewFrame(efrm.Payload())
	if err != nil {
		return 0, false
	}
	icmpOff := slashnet.OffIPPayload
	if icmpOff >= frameLen {
		return 0, false
	}
	icmp := buf[icmpOff:frameLen]
	if len(icmp) < 2 || icmp[0] != typeEchoRequest {
		return 0, false
	}

	srcMAC := *efrm.Source()
	*efrm.Destination() = srcMAC
	*efrm.Source() = myMAC

	srcIP := *ifrm.Source()
	dstIP := *ifrm.Destination()
	*ifrm.Source() = dstIP
	*ifrm.Destination() = srcIP

	icmp[0] = typeEchoReply
	addChecksumCarry(icmp[2:4], 0x0800)

	return frameLen, true
}

// addChecksumCarry adds delta to the big-endian 16-bit checksum field,
// carrying into the high byte exactly as the reference firmware does.
func addChecksumCarry(field []byte, delta uint16) {
	slashnet.AddValueToBuffer(delta, field)
}

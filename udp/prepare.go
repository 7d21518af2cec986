package udp

import (
	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/ipv4"
)

// Prepare writes the outgoing-header template: Ethernet+IPv4(UDP)+UDP with
// ports set, length/checksum zeroed, per spec.md §4.5's udp_prepare.
func Prepare(buf []byte, idNr uint8, srcIP, dstIP slashnet.IP, srcPort, dstPort uint16, dstMAC, srcMAC slashnet.MAC) Frame {
	efrm, _ := ethernet.NewFrame(buf)
	*efrm.Destination() = dstMAC
	*efrm.Source() = srcMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ipv4.Prepare(efrm.Payload(), idNr, slashnet.IPProtoUDP, srcIP, dstIP)

	f, _ := NewFrame(efrm.Payload()[slashnet.SizeIPv4Header:])
	f.SetSourcePort(srcPort)
	f.SetDestinationPort(dstPort)
	f.SetLength(0)
	f.SetChecksum(0)
	return f
}

// PrepareReply templates a reply by swapping source/destination ports and
// addresses read out of the inbound frame in, per spec.md §4.5's
// udp_prepare_reply.
func PrepareReply(out []byte, idNr uint8, in []byte, myMAC slashnet.MAC) Frame {
	ein, _ := ethernet.NewFrame(in)
	iin, _ := ipv4.NewFrame(ein.Payload())
	uin, _ := NewFrame(iin.Payload())

	return Prepare(out, idNr, *iin.Destination(), *iin.Source(),
		uin.DestinationPort(), uin.SourcePort(), *ein.Source(), myMAC)
}

// Send finalizes the header fields that depend on payload length n (already
// written into out at the payload offset) and returns the total frame
// length to hand to the NIC, per spec.md §4.5.
func Send(out []byte, n int) int {
	efrm, _ := ethernet.NewFrame(out)
	ifrm, _ := ipv4.NewFrame(efrm.Payload())
	totalLength := slashnet.SizeIPv4Header + sizeHeader + n
	ifrm.SetTotalLength(uint16(totalLength))

	ufrm, _ := NewFrame(ifrm.Payload())
	ufrm.SetLength(uint16(sizeHeader + n))

	ifrm.SetChecksum(0)
	ifrm.SetChecksum(ifrm.CalculateHeaderChecksum())

	ufrm.SetChecksum(0)
	ufrm.SetChecksum(slashnet.Checksum(slashnet.ChecksumUDP, ufrm.RawData()[:sizeHeader+n],
		*ifrm.Source(), *ifrm.Destination(), totalLength))

	return slashnet.SizeEthernetHeader + totalLength
}

package tcp

import (
	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/ipv4"
)

const (
	offsetNoOptions = 5 // words, 20 bytes.
	offsetSYN       = 7 // words, 28 bytes: fixed header + MSS/WSCALE/EOL.
)

// Prepare builds the active-open outgoing template (tcp_prepare):
// Ethernet+IPv4(protocol=6)+TCP with a 28-byte header (fixed part plus the
// MSS=1024/WSCALE=0 SYN option block), sequence {1,0,0,seqNr}, ack zero,
// flags zero, window 1024, checksum/urgent zero, per spec.md §4.7.
func Prepare(buf []byte, idNr uint8, seqNr uint8, srcIP, dstIP slashnet.IP, srcPort, dstPort uint16, dstMAC, srcMAC slashnet.MAC) Frame {
	efrm, _ := ethernet.NewFrame(buf)
	*efrm.Destination() = dstMAC
	*efrm.Source() = srcMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ipv4.Prepare(efrm.Payload(), idNr, slashnet.IPProtoTCP, srcIP, dstIP)

	f, _ := NewFrame(efrm.Payload()[slashnet.SizeIPv4Header:])
	f.SetSourcePort(srcPort)
	f.SetDestinationPort(dstPort)
	f.SetSeq(seqValue(seqNr))
	f.SetAck(0)
	f.SetDataOffsetAndFlags(offsetSYN, 0)
	f.SetWindowSize(WindowSize)
	f.SetChecksum(0)
	f.SetUrgentPtr(0)
	writeSYNOptions(f.Options())
	return f
}

// seqValue packs the fixed {1,0,0,k} sequence number spec.md §4.7/§8 uses
// for every outgoing SYN/SYN-ACK, with k the monotonic low byte.
func seqValue(k uint8) uint32 { return 1<<24 | uint32(k) }

// PrepareReply templates a reply keyed from an inbound segment in (a full
// Ethernet+IPv4+TCP frame): ports and addresses swapped, header fixed at 20
// bytes (no options), flags zero, window 1024, and buffer_in.ack_nr/seq_nr
// cross-copied into buffer_out.seq_nr/ack_nr, per spec.md §4.7's
// tcp_prepare_reply. The caller sets flags and bumps Ack afterward per the
// classification it made.
func PrepareReply(out []byte, idNr uint8, in []byte, myMAC slashnet.MAC) Frame {
	ein, _ := ethernet.NewFrame(in)
	iin, _ := ipv4.NewFrame(ein.Payload())
	tin, _ := NewFrame(iin.Payload())

	efrm, _ := ethernet.NewFrame(out)
	*efrm.Destination() = *ein.Source()
	*efrm.Source() = myMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ipv4.Prepare(efrm.Payload(), idNr, slashnet.IPProtoTCP, *iin.Destination(), *iin.Source())

	f, _ := NewFrame(efrm.Payload()[slashnet.SizeIPv4Header:])
	f.SetSourcePort(tin.DestinationPort())
	f.SetDestinationPort(tin.SourcePort())
	f.SetSeq(tin.Ack())
	f.SetAck(tin.Seq())
	f.SetDataOffsetAndFlags(offsetNoOptions, 0)
	f.SetWindowSize(WindowSize)
	f.SetChecksum(0)
	f.SetUrgentPtr(0)
	return f
}

// PrepareSYNACK templates a SYN+ACK reply to an inbound SYN segment in:
// ports and addresses swapped like PrepareReply, but the sequence number is
// the same monotonic {1,0,0,seqNr} ISN template Prepare uses for an active
// open, not a cross-copy from in — the reply is this device's own first
// segment in the exchange, per spec.md §8 invariant 3. The acknowledgment
// number is the inbound sequence number plus one. Includes the 8-byte
// MSS/WSCALE/EOL option block, per spec.md §4.7's SYN branch.
func PrepareSYNACK(out []byte, idNr uint8, seqNr uint8, in []byte, myMAC slashnet.MAC) Frame {
	ein, _ := ethernet.NewFrame(in)
	iin, _ := ipv4.NewFrame(ein.Payload())
	tin, _ := NewFrame(iin.Payload())

	efrm, _ := ethernet.NewFrame(out)
	*efrm.Destination() = *ein.Source()
	*efrm.Source() = myMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ipv4.Prepare(efrm.Payload(), idNr, slashnet.IPProtoTCP, *iin.Destination(), *iin.Source())

	f, _ := NewFrame(efrm.Payload()[slashnet.SizeIPv4Header:])
	f.SetSourcePort(tin.DestinationPort())
	f.SetDestinationPort(tin.SourcePort())
	f.SetSeq(seqValue(seqNr))
	f.SetAck(tin.Seq() + 1)
	f.SetDataOffsetAndFlags(offsetSYN, FlagSYN|FlagACK)
	f.SetWindowSize(WindowSize)
	f.SetChecksum(0)
	f.SetUrgentPtr(0)
	writeSYNOptions(f.Options())
	return f
}

// Send finalizes the IP/TCP length and checksum fields for a segment whose
// header is already complete and whose payload of length n already sits
// past the header in out, and returns the total frame length to hand to
// the NIC, per spec.md §4.7's "Send" paragraph.
func Send(out []byte, n int) int {
	efrm, _ := ethernet.NewFrame(out)
	ifrm, _ := ipv4.NewFrame(efrm.Payload())
	// TotalLength is not set yet, so address the TCP header by its fixed
	// offset rather than through ipv4.Frame.Payload.
	tfrm, _ := NewFrame(ifrm.RawData()[slashnet.SizeIPv4Header:])

	segLen := tfrm.HeaderLength()
	totalLength := slashnet.SizeIPv4Header + segLen + n
	ifrm.SetTotalLength(uint16(totalLength))
	ifrm.SetChecksum(0)
	ifrm.SetChecksum(ifrm.CalculateHeaderChecksum())

	tfrm.SetChecksum(0)
	tfrm.SetChecksum(slashnet.Checksum(slashnet.ChecksumTCP, tfrm.RawData()[:segLen+n],
		*ifrm.Source(), *ifrm.Destination(), totalLength))

	return slashnet.SizeEthernetHeader + totalLength
}

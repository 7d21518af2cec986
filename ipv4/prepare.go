package ipv4

import "github.com/slashdev/slashnet"

// Prepare writes a template IPv4 header (version 4, IHL 5, ToS 0, TTL 64,
// Don't-Fragment set, checksum zeroed) into buf[0:20], per spec.md §4.2's
// ip_prepare. TotalLength and checksum are filled in by the caller once the
// payload length is known; ID is set here from idNr, per spec.md's
// "running byte id_nr" counter.
func Prepare(buf []byte, idNr uint8, proto slashnet.IPProto, srcIP, dstIP slashnet.IP) Frame {
	f, _ := NewFrame(buf)
	f.SetVersionAndIHL(4, 5)
	f.SetToS(0)
	f.SetTotalLength(0)
	f.SetID(idNr)
	f.SetFlags(slashnet.IPv4FlagDontFragment)
	f.SetTTL(slashnet.IPTTL)
	f.SetProtocol(proto)
	f.SetChecksum(0)
	*f.Source() = srcIP
	*f.Destination() = dstIP
	return f
}

package stack

import (
	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/internal"
)

// DumpBuffers renders a textual zone map of buffer_in, labeling the fixed
// Ethernet/IPv4/payload offsets the dispatch loop reads from. Useful from a
// debug console command, never called from the dispatch path itself.
func (l *Loop) DumpBuffers(dst []byte) ([]byte, error) {
	var zp internal.ZonePrinter
	n := len(l.bufferIn)
	payloadEnd := n
	ipEnd := slashnet.SizeEthernetHeader + slashnet.SizeIPv4Header
	if ipEnd > n {
		ipEnd = n
	}
	ethEnd := slashnet.SizeEthernetHeader
	if ethEnd > n {
		ethEnd = n
	}
	return zp.AppendPrintZones(dst, n,
		internal.BufferZone{Name: "eth", Start: 0, End: ethEnd},
		internal.BufferZone{Name: "ipv4", Start: ethEnd, End: ipEnd},
		internal.BufferZone{Name: "payload", Start: ipEnd, End: payloadEnd},
	)
}

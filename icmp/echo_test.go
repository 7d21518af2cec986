package icmp_test

import (
	"testing"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/icmp"
	"github.com/slashdev/slashnet/ipv4"
)

func TestEchoReplySwapsAddressesAndType(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	peerMAC := slashnet.MAC{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	myIP := slashnet.IP{10, 0, 0, 7}
	peerIP := slashnet.IP{10, 0, 0, 50}

	payload := []byte{8, 0, 0xf7, 0xff, 0, 1, 0, 1, 'h', 'i'} // type=8 code=0, bogus checksum, id/seq, data.
	frameLen := slashnet.OffIPPayload + len(payload)
	buf := make([]byte, frameLen)

	efrm, _ := ethernet.NewFrame(buf)
	*efrm.Destination() = myMAC
	*efrm.Source() = peerMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ifrm := ipv4.Prepare(efrm.Payload(), 1, slashnet.IPProtoICMP, peerIP, myIP)
	ifrm.SetTotalLength(uint16(20 + len(payload)))
	copy(buf[slashnet.OffIPPayload:], payload)

	n, ok := icmp.EchoReply(myMAC, buf, frameLen)
	if !ok {
		t.Fatal("expected ok=true for echo request")
	}
	if n != frameLen {
		t.Fatalf("tx length = %d, want %d", n, frameLen)
	}

	oefrm, _ := ethernet.NewFrame(buf[:n])
	if *oefrm.Destination() != peerMAC || *oefrm.Source() != myMAC {
		t.Fatal("Ethernet addresses not swapped correctly")
	}
	oifrm, _ := ipv4.NewFrame(oefrm.Payload())
	if *oifrm.Source() != myIP || *oifrm.Destination() != peerIP {
		t.Fatal("IP addresses not swapped correctly")
	}
	if buf[slashnet.OffIPPayload] != 0 {
		t.Fatalf("ICMP type = %d, want 0 (echo reply)", buf[slashnet.OffIPPayload])
	}
}

func TestEchoReplyIgnoresOtherTypes(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	payload := []byte{3, 0, 0, 0} // type=3, destination unreachable.
	frameLen := slashnet.OffIPPayload + len(payload)
	buf := make([]byte, frameLen)
	efrm, _ := ethernet.NewFrame(buf)
	efrm.SetEtherType(slashnet.EtherTypeIPv4)
	ipv4.Prepare(efrm.Payload(), 1, slashnet.IPProtoICMP, slashnet.IP{}, slashnet.IP{})
	copy(buf[slashnet.OffIPPayload:], payload)

	if _, ok := icmp.EchoReply(myMAC, buf, frameLen); ok {
		t.Fatal("expected ok=false for non-echo-request ICMP type")
	}
}

package udp_test

import (
	"testing"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/udp"
)

func buildDatagram(t *testing.T, srcPort, dstPort uint16, payload []byte) []byte {
	t.Helper()
	srcMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	dstMAC := slashnet.MAC{6, 5, 4, 3, 2, 1}
	srcIP := slashnet.IP{10, 0, 0, 2}
	dstIP := slashnet.IP{10, 0, 0, 7}

	buf := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+slashnet.SizeUDPHeader+len(payload))
	udp.Prepare(buf, 1, srcIP, dstIP, srcPort, dstPort, dstMAC, srcMAC)
	copy(buf[slashnet.OffIPPayload+slashnet.SizeUDPHeader:], payload)
	n := udp.Send(buf, len(payload))
	return buf[:n]
}

func TestSendSetsLengthsAndChecksums(t *testing.T) {
	payload := []byte("ping")
	frame := buildDatagram(t, 5000, 7900, payload)

	ifrm, _ := ipv4.NewFrame(frame[slashnet.OffIPv4:])
	if int(ifrm.TotalLength()) != 20+8+len(payload) {
		t.Fatalf("IP total length = %d", ifrm.TotalLength())
	}
	// CalculateHeaderChecksum always re-zeroes the checksum field before
	// summing, so verify fold-to-zero over the header as stored instead.
	if slashnet.Checksum(slashnet.ChecksumIP, ifrm.RawData()[:20], slashnet.IP{}, slashnet.IP{}, 0) != 0 {
		t.Fatal("IP header checksum must fold to zero")
	}

	ufrm, _ := udp.NewFrame(frame[slashnet.OffIPPayload:])
	if int(ufrm.Length()) != 8+len(payload) {
		t.Fatalf("UDP length = %d", ufrm.Length())
	}
	if string(ufrm.Payload()) != "ping" {
		t.Fatalf("payload = %q", ufrm.Payload())
	}
}

func TestServerDispatchesToRegisteredPort(t *testing.T) {
	srv := udp.NewServer(4, nil)
	var got []byte
	srv.Ports.Set(7900, func(payload []byte) { got = append([]byte(nil), payload...) })

	frame := buildDatagram(t, 5000, 7900, []byte("ping"))
	srv.Receive(frame)

	if string(got) != "ping" {
		t.Fatalf("callback payload = %q, want %q", got, "ping")
	}
}

func TestServerIgnoresUnregisteredPort(t *testing.T) {
	srv := udp.NewServer(4, nil)
	called := false
	srv.Ports.Set(7900, func(payload []byte) { called = true })

	frame := buildDatagram(t, 5000, 9999, []byte("ping"))
	srv.Receive(frame)

	if called {
		t.Fatal("callback must not run for an unregistered port")
	}
}

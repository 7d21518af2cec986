package tcp_test

import (
	"testing"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/tcp"
)

func buildSegment(t *testing.T, seq, ack uint32, window uint16, flags tcp.Flags, srcPort, dstPort uint16) []byte {
	t.Helper()
	srcMAC := slashnet.MAC{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	dstMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	srcIP := slashnet.IP{10, 0, 0, 50}
	dstIP := slashnet.IP{10, 0, 0, 7}

	buf := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+slashnet.SizeTCPHeaderMin)
	efrm, _ := ethernet.NewFrame(buf)
	*efrm.Destination() = dstMAC
	*efrm.Source() = srcMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ifrm := ipv4.Prepare(efrm.Payload(), 1, slashnet.IPProtoTCP, srcIP, dstIP)
	ifrm.SetTotalLength(20 + 20)

	tfrm, _ := tcp.NewFrame(ifrm.Payload())
	tfrm.SetSourcePort(srcPort)
	tfrm.SetDestinationPort(dstPort)
	tfrm.SetSeq(seq)
	tfrm.SetAck(ack)
	tfrm.SetDataOffsetAndFlags(5, flags)
	tfrm.SetWindowSize(window)
	tfrm.SetUrgentPtr(0)
	return buf
}

func TestReceiveSYNProducesSYNACK(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	h := tcp.NewHandler(myMAC, 4, nil)

	in := buildSegment(t, 0xAABBCCDD, 0, 0x4000, tcp.FlagSYN, 54321, 80)
	out := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+28)

	n, ok := h.Receive(in, out)
	if !ok {
		t.Fatal("expected a SYN-ACK reply")
	}
	wantLen := slashnet.SizeEthernetHeader + slashnet.SizeIPv4Header + 28
	if n != wantLen {
		t.Fatalf("reply length = %d, want %d", n, wantLen)
	}

	ifrm, _ := ipv4.NewFrame(out[slashnet.OffIPv4:])
	// CalculateHeaderChecksum always re-zeroes the checksum field before
	// summing, so verify fold-to-zero over the header as stored instead.
	if slashnet.Checksum(slashnet.ChecksumIP, ifrm.RawData()[:20], slashnet.IP{}, slashnet.IP{}, 0) != 0 {
		t.Fatal("IP header checksum must fold to zero")
	}

	tfrm, _ := tcp.NewFrame(ifrm.Payload())
	off, flags := tfrm.DataOffsetAndFlags()
	if flags != tcp.FlagSYN|tcp.FlagACK {
		t.Fatalf("flags = %#x, want SYN|ACK", flags)
	}
	if off != 7 {
		t.Fatalf("data offset = %d words, want 7 (28 bytes)", off)
	}
	if tfrm.Ack() != 0xAABBCCDE {
		t.Fatalf("ack = %#x, want %#x", tfrm.Ack(), uint32(0xAABBCCDE))
	}
	if tfrm.Seq()>>24 != 1 || tfrm.Seq()>>8&0xff != 0 || tfrm.Seq()>>16&0xff != 0 {
		t.Fatalf("seq = %#x, want {1,0,0,k} pattern", tfrm.Seq())
	}
	if tfrm.WindowSize() != tcp.WindowSize {
		t.Fatalf("window = %d, want %d", tfrm.WindowSize(), tcp.WindowSize)
	}
	opts := tfrm.Options()
	if opts[0] != 2 || opts[1] != 4 || opts[2] != 4 || opts[3] != 0 { // kind=MSS len=4 value=1024.
		t.Fatalf("MSS option = % x", opts[:4])
	}
	if opts[4] != 3 || opts[5] != 3 || opts[6] != 0 { // kind=WSCALE len=3 value=0.
		t.Fatalf("WSCALE option = % x", opts[4:7])
	}
	// Checksum must fold to zero when verified the same way it was computed.
	cs := slashnet.Checksum(slashnet.ChecksumTCP, tfrm.RawData()[:28], *ifrm.Source(), *ifrm.Destination(), int(ifrm.TotalLength()))
	if cs != 0 {
		t.Fatalf("TCP checksum verification failed: %#x", cs)
	}
}

func TestReceiveFINProducesFINACK(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	h := tcp.NewHandler(myMAC, 4, nil)

	in := buildSegment(t, 100, 200, 1024, tcp.FlagFIN|tcp.FlagACK, 54321, 80)
	out := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+20)

	n, ok := h.Receive(in, out)
	if !ok {
		t.Fatal("expected a FIN-ACK reply")
	}
	if n != slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+20 {
		t.Fatalf("reply length = %d", n)
	}
	ifrm, _ := ipv4.NewFrame(out[slashnet.OffIPv4:])
	tfrm, _ := tcp.NewFrame(ifrm.Payload())
	_, flags := tfrm.DataOffsetAndFlags()
	if flags != tcp.FlagFIN|tcp.FlagACK {
		t.Fatalf("flags = %#x, want FIN|ACK", flags)
	}
	if tfrm.Ack() != 101 {
		t.Fatalf("ack = %d, want 101", tfrm.Ack())
	}
	if tfrm.Seq() != 200 {
		t.Fatalf("seq = %d, want 200 (cross-copied from inbound ack)", tfrm.Seq())
	}
}

func TestReceiveRSTIsLogOnly(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	h := tcp.NewHandler(myMAC, 4, nil)
	in := buildSegment(t, 100, 0, 0, tcp.FlagRST, 54321, 80)
	out := make([]byte, 64)

	n, ok := h.Receive(in, out)
	if ok || n != 0 {
		t.Fatal("expected no reply for RST")
	}
}

func TestReceiveDataSegmentInvokesCallbackAndForcesClose(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	h := tcp.NewHandler(myMAC, 4, nil)

	var gotPayload []byte
	h.Ports.Set(80, func(payload []byte, reply *tcp.ReplyBuilder) {
		gotPayload = append([]byte(nil), payload...)
		reply.Append([]byte("ok"))
		reply.Send()
	})

	data := []byte("GET / HTTP/1.1\r\n\r\n")
	srcMAC := slashnet.MAC{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	dstMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	srcIP := slashnet.IP{10, 0, 0, 50}
	dstIP := slashnet.IP{10, 0, 0, 7}

	fullIn := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+20+len(data))
	efrm, _ := ethernet.NewFrame(fullIn)
	*efrm.Destination() = dstMAC
	*efrm.Source() = srcMAC
	efrm.SetEtherType(slashnet.EtherTypeIPv4)

	ifrm := ipv4.Prepare(efrm.Payload(), 1, slashnet.IPProtoTCP, srcIP, dstIP)
	ifrm.SetTotalLength(uint16(20 + 20 + len(data)))

	tfrm, _ := tcp.NewFrame(ifrm.Payload())
	tfrm.SetSourcePort(54321)
	tfrm.SetDestinationPort(80)
	tfrm.SetSeq(100)
	tfrm.SetAck(200)
	tfrm.SetDataOffsetAndFlags(5, tcp.FlagACK|tcp.FlagPSH)
	tfrm.SetWindowSize(1024)
	tfrm.SetUrgentPtr(0)
	copy(tfrm.Payload(), data)

	ifrm.SetChecksum(0)
	ifrm.SetChecksum(ifrm.CalculateHeaderChecksum())

	out := make([]byte, slashnet.SizeEthernetHeader+slashnet.SizeIPv4Header+20+2)
	n, ok := h.Receive(fullIn, out)
	if !ok {
		t.Fatal("expected a reply for the data segment")
	}
	if string(gotPayload) != string(data) {
		t.Fatalf("callback payload = %q, want %q", gotPayload, data)
	}
	oifrm, _ := ipv4.NewFrame(out[slashnet.OffIPv4:])
	otfrm, _ := tcp.NewFrame(oifrm.Payload())
	_, flags := otfrm.DataOffsetAndFlags()
	if flags != tcp.FlagACK|tcp.FlagPSH|tcp.FlagFIN {
		t.Fatalf("flags = %#x, want ACK|PUSH|FIN", flags)
	}
	if otfrm.Ack() != 100+uint32(len(data)) {
		t.Fatalf("ack = %d, want %d", otfrm.Ack(), 100+len(data))
	}
	if n == 0 {
		t.Fatal("expected non-zero reply length")
	}
}

package dhcpv4

import (
	"testing"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/udp"
)

func testMAC() slashnet.MAC { return slashnet.MAC{0x02, 0x00, 0x00, 0x00, 0x00, 0x2a} }

func parseOutgoing(t *testing.T, out []byte) Frame {
	t.Helper()
	efrm, err := ethernet.NewFrame(out)
	if err != nil {
		t.Fatal(err)
	}
	ifrm, err := ipv4.NewFrame(efrm.Payload())
	if err != nil {
		t.Fatal(err)
	}
	ufrm, err := udp.NewFrame(ifrm.Payload())
	if err != nil {
		t.Fatal(err)
	}
	dfrm, err := NewFrame(ufrm.Payload())
	if err != nil {
		t.Fatal(err)
	}
	return dfrm
}

func TestIdleSendsDiscoverAfterThreeTicks(t *testing.T) {
	c := NewClient(testMAC(), "", nil)
	out := make([]byte, 512)

	for i := 0; i < idleWaitSeconds-1; i++ {
		if _, ok := c.Tick(out); ok {
			t.Fatalf("tick %d: unexpected packet before the 3s wait elapses", i)
		}
	}
	n, ok := c.Tick(out)
	if !ok {
		t.Fatal("expected a DISCOVER on the 3rd tick")
	}
	if c.State() != Waiting {
		t.Fatalf("state = %s, want waiting", c.State())
	}

	dfrm := parseOutgoing(t, out[:n])
	if dfrm.Op() != opRequest {
		t.Fatalf("op = %d, want request(1)", dfrm.Op())
	}
	xid := dfrm.XID()
	if xid != [4]byte{1, testMAC()[5], testMAC()[5], testMAC()[5]} {
		t.Fatalf("xid = %v", xid)
	}
	if dfrm.MagicCookie() != magicCookie {
		t.Fatal("bad magic cookie")
	}
	po := parseOptions(dfrm.Options())
	if po.msgType != msgDiscover {
		t.Fatalf("message type = %d, want discover", po.msgType)
	}
}

func TestWaitingRetriesAfterThirtySecondsWithIncrementedXID(t *testing.T) {
	c := NewClient(testMAC(), "", nil)
	out := make([]byte, 512)
	for i := 0; i < idleWaitSeconds; i++ {
		c.Tick(out)
	}
	if c.State() != Waiting {
		t.Fatal("expected Waiting after initial DISCOVER")
	}
	firstXID := c.xid

	var n int
	var ok bool
	for i := 0; i < noOfferRetrySeconds; i++ {
		n, ok = c.Tick(out)
	}
	if !ok {
		t.Fatal("expected a resend after 30s without an offer")
	}
	if c.State() != Waiting {
		t.Fatalf("state = %s, want waiting", c.State())
	}
	if c.xid != firstXID+1 {
		t.Fatalf("xid = %d, want %d", c.xid, firstXID+1)
	}
	dfrm := parseOutgoing(t, out[:n])
	xid := dfrm.XID()
	if xid[1] != c.xid {
		t.Fatalf("resent xid = %d, want %d", xid[1], c.xid)
	}
}

// buildReply fabricates a server BOOTREPLY with the given message type,
// yiaddr and options, matching xid to whatever the client currently expects.
func buildReply(t *testing.T, c *Client, msgType MessageType, yiaddr slashnet.IP, writeOpts func(opts []byte) int) []byte {
	t.Helper()
	buf := make([]byte, 600)
	udp.Prepare(buf, 1, slashnet.IP{10, 0, 0, 1}, broadcastIP, serverPort, clientPort, slashnet.BroadcastMAC, slashnet.MAC{9, 9, 9, 9, 9, 9})

	dfrm, err := NewFrame(buf[slashnet.OffIPPayload+slashnet.SizeUDPHeader:])
	if err != nil {
		t.Fatal(err)
	}
	dfrm.ClearHeader()
	dfrm.SetOp(opReply)
	dfrm.SetHardware(1, 6, 0)
	dfrm.SetXID([4]byte{c.xidLead, c.xid, c.xid, c.xid})
	*dfrm.YIAddr() = yiaddr
	*dfrm.CHAddr() = c.MAC
	dfrm.SetMagicCookie(magicCookie)

	opts := dfrm.Options()
	n := 0
	n += writeOption(opts[n:], optMessageType, byte(msgType))
	if writeOpts != nil {
		n += writeOpts(opts[n:])
	}
	opts[n] = byte(optEnd)
	n++

	total := udp.Send(buf, optionsOffset+n)
	return buf[:total]
}

// TestBindScenario reproduces spec.md §8 scenario 3: DISCOVER after 3 ticks,
// an OFFER of 10.0.0.42/255.255.255.0 via router 10.0.0.1 with an 86400s
// lease, a REQUEST, then an ACK, ending Bound with lease_time = 1350
// minutes (86400 >> 6).
func TestBindScenario(t *testing.T) {
	c := NewClient(testMAC(), "", nil)
	out := make([]byte, 600)

	for i := 0; i < idleWaitSeconds; i++ {
		c.Tick(out)
	}
	if c.State() != Waiting {
		t.Fatal("expected Waiting before the offer arrives")
	}

	offer := buildReply(t, c, msgOffer, slashnet.IP{10, 0, 0, 42}, func(opts []byte) int {
		n := 0
		n += writeOption(opts[n:], optSubnetMask, 255, 255, 255, 0)
		n += writeOption(opts[n:], optRouter, 10, 0, 0, 1)
		n += writeOption(opts[n:], optServerID, 10, 0, 0, 1)
		n += writeOption(opts[n:], optIPAddressLeaseTime, 0, 1, 81, 128) // 86400 big-endian.
		return n
	})

	n, ok := c.Receive(offer, out)
	if !ok {
		t.Fatal("expected a REQUEST in reply to the offer")
	}
	if c.State() != Requested {
		t.Fatalf("state = %s, want requested", c.State())
	}
	reqFrame := parseOutgoing(t, out[:n])
	reqPO := parseOptions(reqFrame.Options())
	if reqPO.msgType != msgRequest {
		t.Fatalf("message type = %d, want request", reqPO.msgType)
	}
	if !reqPO.haveServerID || reqPO.serverID != [4]byte{10, 0, 0, 1} {
		t.Fatal("REQUEST missing server identifier")
	}

	ack := buildReply(t, c, msgAck, slashnet.IP{10, 0, 0, 42}, func(opts []byte) int {
		n := 0
		n += writeOption(opts[n:], optSubnetMask, 255, 255, 255, 0)
		n += writeOption(opts[n:], optRouter, 10, 0, 0, 1)
		n += writeOption(opts[n:], optIPAddressLeaseTime, 0, 1, 81, 128)
		return n
	})

	_, sent := c.Receive(ack, out)
	if sent {
		t.Fatal("an ACK produces no outgoing packet")
	}
	if c.State() != Bound {
		t.Fatalf("state = %s, want bound", c.State())
	}
	if c.MyIP != (slashnet.IP{10, 0, 0, 42}) {
		t.Fatalf("my_ip = %v", c.MyIP)
	}
	if c.GatewayIP != (slashnet.IP{10, 0, 0, 1}) {
		t.Fatalf("gateway_ip = %v", c.GatewayIP)
	}
	if c.GatewayNetmask != (slashnet.IP{255, 255, 255, 0}) {
		t.Fatalf("gateway_netmask = %v", c.GatewayNetmask)
	}
	if c.LeaseMinutes() != 1350 {
		t.Fatalf("lease_time = %d, want 1350", c.LeaseMinutes())
	}
}

func TestZeroYiaddrOfferTreatedAsNoOffer(t *testing.T) {
	c := NewClient(testMAC(), "", nil)
	out := make([]byte, 600)
	for i := 0; i < idleWaitSeconds; i++ {
		c.Tick(out)
	}

	offer := buildReply(t, c, msgOffer, slashnet.IP{}, nil)
	_, ok := c.Receive(offer, out)
	if ok {
		t.Fatal("a zero yiaddr must not be accepted as an offer")
	}
	if c.State() != Waiting {
		t.Fatalf("state = %s, want waiting (no offer accepted)", c.State())
	}
}

func TestNakResetsClientToIdle(t *testing.T) {
	c := NewClient(testMAC(), "", nil)
	out := make([]byte, 600)
	for i := 0; i < idleWaitSeconds; i++ {
		c.Tick(out)
	}
	offer := buildReply(t, c, msgOffer, slashnet.IP{10, 0, 0, 42}, nil)
	c.Receive(offer, out)
	if c.State() != Requested {
		t.Fatal("setup: expected Requested before the NAK")
	}

	nak := buildReply(t, c, msgNak, slashnet.IP{}, nil)
	c.Receive(nak, out)
	if c.State() != Idle {
		t.Fatalf("state = %s, want idle after NAK", c.State())
	}
	if !c.MyIP.IsZero() {
		t.Fatal("my_ip must clear on NAK reset")
	}
}

func TestLeaseZeroSecondsClampsToFiveMinutes(t *testing.T) {
	if got := leaseSecondsToMinutes(0); got != 5 {
		t.Fatalf("lease(0) = %d, want 5", got)
	}
}

func TestLeaseInfiniteSeconds(t *testing.T) {
	if got := leaseSecondsToMinutes(0xFFFFFFFF); got != 0xFFFF {
		t.Fatalf("lease(infinite) = %#x, want 0xffff", got)
	}
}

func TestHostnameOptionSentWhenConfigured(t *testing.T) {
	c := NewClient(testMAC(), "device1", nil)
	out := make([]byte, 512)
	for i := 0; i < idleWaitSeconds; i++ {
		c.Tick(out)
	}
	dfrm := parseOutgoing(t, out)
	var gotHostname string
	for i := 0; i+1 < len(dfrm.Options()); {
		opts := dfrm.Options()
		num := OptNum(opts[i])
		if num == 0 {
			break
		}
		length := int(opts[i+1])
		if num == optHostName {
			gotHostname = string(opts[i+2 : i+2+length])
		}
		i += 2 + length
	}
	if gotHostname != "device1" {
		t.Fatalf("hostname option = %q, want %q", gotHostname, "device1")
	}
}

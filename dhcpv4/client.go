package dhcpv4

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/internal"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/udp"
)

const maxHostnameLen = 63

// Client drives DISCOVER/OFFER/REQUEST/ACK acquisition and, once bound, a
// lease-renewal loop, per spec.md §4.6. It holds no goroutines: Tick and
// Receive are called by the host dispatch loop and return a packet to send
// (if any) into out.
type Client struct {
	MAC      slashnet.MAC
	Hostname string // sent as option 12 (DHCP hostname) when non-empty.
	Log      *slog.Logger

	state          State
	xidLead        byte // 1 for initial acquisition, 2 while renewing.
	xid            byte
	secondsInState uint16

	leaseMinutes      uint16
	leaseSecondsAccum uint8 // real seconds elapsed since the last minute decrement.

	MyIP           slashnet.IP
	GatewayIP      slashnet.IP
	GatewayNetmask slashnet.IP
	ServerID       slashnet.IP

	idNr uint8
}

// NewClient returns a Client ready to begin acquisition on the next Tick.
func NewClient(mac slashnet.MAC, hostname string, log *slog.Logger) *Client {
	if len(hostname) > maxHostnameLen {
		hostname = hostname[:maxHostnameLen]
	}
	c := &Client{MAC: mac, Hostname: hostname, Log: log}
	c.Reset()
	return c
}

// Reset returns the client to Idle with a fresh transaction ID derived from
// the low byte of the MAC address, per spec.md §4.6's "xid = my_mac[5]".
// ARP and DHCP state both reset implicitly on power-on per spec.md §3; this
// is the DHCP half of that.
func (c *Client) Reset() {
	c.state = Idle
	c.xidLead = 1
	c.xid = c.MAC[5]
	c.secondsInState = 0
	c.leaseMinutes = 0
	c.leaseSecondsAccum = 0
	c.MyIP = slashnet.IP{}
	c.GatewayIP = slashnet.IP{}
	c.GatewayNetmask = slashnet.IP{}
	c.ServerID = slashnet.IP{}
}

// State returns the client's current position in the acquisition/renewal
// state machine.
func (c *Client) State() State { return c.state }

// Bound reports whether MyIP currently holds a leased address.
func (c *Client) Bound() bool { return c.state == Bound || c.state == Renewing }

// LeaseMinutes returns the current lease duration, already right-shifted
// per spec.md §4.6's minutes quirk (0xFFFF means infinite).
func (c *Client) LeaseMinutes() uint16 { return c.leaseMinutes }

// Tick advances the one-second clock spec.md §4.6's state table is driven
// by and, if a timeout fires a packet, builds it into out and returns its
// length. ok is false when no packet is due this tick.
func (c *Client) Tick(out []byte) (n int, ok bool) {
	c.secondsInState++
	switch c.state {
	case Idle:
		if c.secondsInState < idleWaitSeconds {
			return 0, false
		}
		c.secondsInState = 0
		c.state = Waiting
		return c.buildDiscover(out), true

	case Waiting:
		if c.secondsInState < noOfferRetrySeconds {
			return 0, false
		}
		c.secondsInState = 0
		c.xid++
		return c.buildDiscover(out), true

	case Requested:
		if c.secondsInState < noOfferRetrySeconds {
			return 0, false
		}
		c.secondsInState = 0
		return c.buildRequest(out), true

	case Bound:
		c.tickLease()
		if c.leaseMinutes >= renewThresholdMinutes {
			return 0, false
		}
		c.xidLead = 2
		c.state = Renewing
		c.secondsInState = 0
		return c.buildRequest(out), true

	case Renewing:
		c.tickLease()
		if c.secondsInState < renewRetryMinutes*60 {
			return 0, false
		}
		c.secondsInState = 0
		return c.buildRequest(out), true
	}
	return 0, false
}

// tickLease decrements the lease's minute counter once per 60 real seconds
// elapsed while Bound or Renewing. An infinite lease (0xFFFF) never ticks
// down.
func (c *Client) tickLease() {
	if c.leaseMinutes == 0xFFFF {
		return
	}
	c.leaseSecondsAccum++
	if c.leaseSecondsAccum < 60 {
		return
	}
	c.leaseSecondsAccum = 0
	if c.leaseMinutes > 0 {
		c.leaseMinutes--
	}
}

// Receive classifies an inbound Ethernet+IPv4+UDP+BOOTP frame in. A reply
// packet, if one is warranted, is built into out.
func (c *Client) Receive(in []byte, out []byte) (n int, ok bool) {
	ein, err := ethernet.NewFrame(in)
	if err != nil {
		return 0, false
	}
	iin, err := ipv4.NewFrame(ein.Payload())
	if err != nil {
		return 0, false
	}
	uin, err := udp.NewFrame(iin.Payload())
	if err != nil {
		return 0, false
	}
	if uin.SourcePort() != serverPort {
		return 0, false
	}
	dfrm, err := NewFrame(uin.Payload())
	if err != nil {
		internal.LogAttrs(c.Log, slog.LevelWarn, "dhcp:short")
		return 0, false
	}

	// is_packet_for_me, per spec.md §4.6: BOOTP op=2, magic cookie, and the
	// three repeated transaction-ID bytes plus the initial/renew lead byte.
	if dfrm.Op() != opReply || dfrm.MagicCookie() != magicCookie {
		return 0, false
	}
	xid := dfrm.XID()
	if xid[0] != c.xidLead || xid[1] != c.xid || xid[2] != c.xid || xid[3] != c.xid {
		return 0, false
	}

	po := parseOptions(dfrm.Options())
	switch {
	case c.state == Waiting && po.msgType == msgOffer:
		yiaddr := *dfrm.YIAddr()
		if yiaddr.IsZero() {
			return 0, false // all-zero yiaddr: treated as no offer, stay Waiting.
		}
		c.MyIP = yiaddr
		c.applyOffer(po)
		// Offered's entry action (send REQUEST) runs synchronously here, so
		// the state machine lands directly on Requested.
		c.state = Requested
		c.secondsInState = 0
		return c.buildRequest(out), true

	case (c.state == Requested || c.state == Renewing) && po.msgType == msgAck:
		c.applyOffer(po)
		c.state = Bound
		c.secondsInState = 0
		c.leaseSecondsAccum = 0
		internal.LogAttrs(c.Log, slog.LevelInfo, "dhcp:bound",
			internal.SlogIP4("ip", (*[4]byte)(&c.MyIP)), slog.Uint64("lease_minutes", uint64(c.leaseMinutes)))
		return 0, false

	case po.msgType == msgNak:
		internal.LogAttrs(c.Log, slog.LevelWarn, "dhcp:nak")
		c.Reset()
		return 0, false
	}
	return 0, false
}

func (c *Client) applyOffer(po parsedOptions) {
	if po.haveSubnet {
		c.GatewayNetmask = slashnet.IP(po.subnet)
	}
	if po.haveRouter {
		c.GatewayIP = slashnet.IP(po.router)
	}
	if po.haveServerID {
		c.ServerID = slashnet.IP(po.serverID)
	}
	if po.haveLease {
		c.leaseMinutes = po.leaseMinutes
	}
}

// buildDiscover writes a DISCOVER packet into out and returns its length.
func (c *Client) buildDiscover(out []byte) int {
	c.idNr++
	udp.Prepare(out, c.idNr, slashnet.IP{}, broadcastIP, clientPort, serverPort, slashnet.BroadcastMAC, c.MAC)
	dfrm := c.bootpHeader(out)

	opts := dfrm.Options()
	n := 0
	n += writeOption(opts[n:], optMessageType, byte(msgDiscover))
	n += writeOption(opts[n:], optParameterReqList, byte(optSubnetMask), byte(optRouter))
	if c.Hostname != "" {
		n += writeOption(opts[n:], optHostName, []byte(c.Hostname)...)
	}
	opts[n] = byte(optEnd)
	n++

	return udp.Send(out, optionsOffset+n)
}

// buildRequest writes a REQUEST packet into out (the Offered->Requested
// transition, a silent retry while Requested, or a lease renewal while
// Renewing) and returns its length. IP source stays 0.0.0.0 even during
// renewal per spec.md §9's documented server-compatibility quirk.
func (c *Client) buildRequest(out []byte) int {
	c.idNr++
	udp.Prepare(out, c.idNr, slashnet.IP{}, broadcastIP, clientPort, serverPort, slashnet.BroadcastMAC, c.MAC)
	dfrm := c.bootpHeader(out)

	opts := dfrm.Options()
	n := 0
	n += writeOption(opts[n:], optMessageType, byte(msgRequest))
	if !c.ServerID.IsZero() {
		n += writeOption(opts[n:], optServerID, c.ServerID[:]...)
	}
	if !c.MyIP.IsZero() {
		n += writeOption(opts[n:], optRequestedIPAddress, c.MyIP[:]...)
	}
	n += writeOption(opts[n:], optParameterReqList, byte(optSubnetMask), byte(optRouter))
	if c.Hostname != "" {
		n += writeOption(opts[n:], optHostName, []byte(c.Hostname)...)
	}
	opts[n] = byte(optEnd)
	n++

	return udp.Send(out, optionsOffset+n)
}

// bootpHeader clears and fills the fixed BOOTP header common to every
// outgoing packet, per spec.md §4.6's packet template.
func (c *Client) bootpHeader(out []byte) Frame {
	dfrm, _ := NewFrame(out[slashnet.OffIPPayload+slashnet.SizeUDPHeader:])
	dfrm.ClearHeader()
	dfrm.SetOp(opRequest)
	dfrm.SetHardware(1, 6, 0)
	dfrm.SetXID([4]byte{c.xidLead, c.xid, c.xid, c.xid})
	dfrm.SetSecs(1)
	*dfrm.CHAddr() = c.MAC
	if c.xidLead == 2 {
		*dfrm.CIAddr() = c.MyIP // renewing: ciaddr carries the already-leased address.
	}
	dfrm.SetMagicCookie(magicCookie)
	return dfrm
}

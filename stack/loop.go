package stack

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/arp"
	"github.com/slashdev/slashnet/dhcpv4"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/httpd"
	"github.com/slashdev/slashnet/icmp"
	"github.com/slashdev/slashnet/internal"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/tcp"
	"github.com/slashdev/slashnet/udp"
)

// Loop is the single cooperative dispatch loop of spec.md §5: one
// foreground poll, classifying the most recent received frame and routing
// it to the matching protocol handler, plus a once-per-second Tick driving
// DHCP and uptime. There is no queue; only the most recent frame is ever
// observable. Construct with NewLoop.
type Loop struct {
	NIC NIC
	MAC slashnet.MAC

	ARP  arp.Handler
	DHCP *dhcpv4.Client
	UDP  *udp.Server
	TCP  *tcp.Handler
	HTTP *httpd.Handler

	Log *slog.Logger

	bufferIn  []byte
	bufferOut []byte

	uptimeSeconds uint32
	onTick        func(uptimeSeconds uint32)

	// gatewayMAC caches the last ARP resolution of DHCP.GatewayIP, per
	// spec.md §3's gateway_mac field; refreshed by ResolveGatewayMAC.
	gatewayMAC  slashnet.MAC
	haveGateway bool
}

// MyIP returns the device's current leased address, zero until DHCP binds.
func (l *Loop) MyIP() slashnet.IP { return l.DHCP.MyIP }

// GatewayIP returns the router address DHCP supplied, zero until bound.
func (l *Loop) GatewayIP() slashnet.IP { return l.DHCP.GatewayIP }

// GatewayNetmask returns the subnet mask DHCP supplied, zero until bound.
func (l *Loop) GatewayNetmask() slashnet.IP { return l.DHCP.GatewayNetmask }

// UptimeSeconds returns the accumulated tick count since power-on.
func (l *Loop) UptimeSeconds() uint32 { return l.uptimeSeconds }

// Tick advances the one-second clock: DHCP's state machine and the uptime
// counter, per spec.md §5's tick responsibilities ("increments
// dhcp_seconds, uptime fields, and the werkti report interval" — the
// werkti half stays outside this module, see Config.OnTick). Any packet
// DHCP produces (a retry, renewal, or the initial DISCOVER) is transmitted
// immediately.
func (l *Loop) Tick() {
	l.uptimeSeconds++
	if n, ok := l.DHCP.Tick(l.bufferOut); ok {
		l.NIC.Send(l.bufferOut, n)
	}
	if l.onTick != nil {
		l.onTick(l.uptimeSeconds)
	}
}

// Poll drains at most one frame from the NIC and dispatches it, per
// spec.md §5's "poll_receive() -> ... -> protocol dispatch" loop body. It
// returns false when nothing was received.
func (l *Loop) Poll() bool {
	n, ok := l.NIC.PollReceive(l.bufferIn)
	if !ok {
		return false
	}
	l.dispatch(l.bufferIn[:n])
	return true
}

// dispatch classifies a received frame by EtherType and, for IPv4, by IP
// protocol, invoking exactly one handler, per spec.md §4's component
// contracts and §2's "Dispatch loop" row.
func (l *Loop) dispatch(in []byte) {
	efrm, err := ethernet.NewFrame(in)
	if err != nil {
		return
	}

	switch efrm.EtherTypeOrSize() {
	case slashnet.EtherTypeARP:
		if n := l.ARP.Receive(in, l.bufferOut); n > 0 {
			l.NIC.Send(l.bufferOut, n)
		}

	case slashnet.EtherTypeIPv4:
		ifrm, err := ipv4.NewFrame(efrm.Payload())
		if err != nil {
			return
		}
		var v slashnet.Validator
		ifrm.ValidateSize(&v)
		if v.Err() != nil {
			internal.LogAttrs(l.Log, slog.LevelWarn, "stack:bad ipv4 length")
			return
		}

		switch ifrm.Protocol() {
		case slashnet.IPProtoICMP:
			if n, ok := icmp.EchoReply(l.MAC, in, len(in)); ok {
				l.NIC.Send(in, n)
			}

		case slashnet.IPProtoUDP:
			if n, ok := l.DHCP.Receive(in, l.bufferOut); ok {
				l.NIC.Send(l.bufferOut, n)
			}
			l.UDP.Receive(in)

		case slashnet.IPProtoTCP:
			if n, ok := l.TCP.Receive(in, l.bufferOut); ok {
				l.NIC.Send(l.bufferOut, n)
			}
		}
	}
}

// ResolveGatewayMAC refreshes the cached gateway_mac field by resolving
// DHCP.GatewayIP, once a lease has supplied it. See ResolveMAC for the
// polling contract.
func (l *Loop) ResolveGatewayMAC(maxPolls int) (mac slashnet.MAC, ok bool) {
	gw := l.DHCP.GatewayIP
	if gw.IsZero() {
		return mac, false
	}
	mac, ok = l.ResolveMAC(gw, maxPolls)
	if ok {
		l.gatewayMAC = mac
		l.haveGateway = true
	}
	return mac, ok
}

// GatewayMAC returns the last MAC ResolveGatewayMAC resolved.
func (l *Loop) GatewayMAC() (mac slashnet.MAC, ok bool) { return l.gatewayMAC, l.haveGateway }

// Package stack wires the NIC driver, ARP cache, ICMP echo, UDP/TCP
// dispatch, the HTTP path table, and the DHCP client into the single
// cooperative poll loop spec.md §5 describes, plus the one-Hz tick that
// drives DHCP timing and uptime, per spec.md §4.1 step 9 and §5.
package stack

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/dhcpv4"
	"github.com/slashdev/slashnet/httpd"
	"github.com/slashdev/slashnet/tcp"
	"github.com/slashdev/slashnet/udp"
)

// Defaults for the fixed-size registries and packet buffers, per spec.md
// §3's sizing notes (buffer_in >= 1024 and <= 1500, buffer_out <= 1500) and
// §4.9's port/path tables.
const (
	DefaultUDPPorts  = 4
	DefaultTCPPorts  = 4
	DefaultHTTPPaths = 8
	DefaultMTUIn     = 1500
	DefaultMTUOut    = 1500
)

// NIC is the subset of the NIC driver the dispatch loop needs: draining
// received frames and handing off frames to transmit. enc28j60.Driver
// satisfies this.
type NIC interface {
	PollReceive(in []byte) (n int, ok bool)
	Send(out []byte, length int)
}

// Config configures a Loop. Only MAC is required; everything else defaults
// per the constants above.
type Config struct {
	MAC      slashnet.MAC
	Hostname string // DHCP option 12, sent only if non-empty.

	UDPPorts  int
	TCPPorts  int
	HTTPPaths int
	MTUIn     int
	MTUOut    int

	Log *slog.Logger

	// OnTick runs at the end of every Tick call with the accumulated
	// uptime in seconds. Werkti reporting itself stays outside this
	// module, per spec.md §1 and the GLOSSARY's "Werkti" entry; this hook
	// is the only counter surface this module exposes for it.
	OnTick func(uptimeSeconds uint32)
}

func (c Config) withDefaults() Config {
	if c.UDPPorts == 0 {
		c.UDPPorts = DefaultUDPPorts
	}
	if c.TCPPorts == 0 {
		c.TCPPorts = DefaultTCPPorts
	}
	if c.HTTPPaths == 0 {
		c.HTTPPaths = DefaultHTTPPaths
	}
	if c.MTUIn == 0 {
		c.MTUIn = DefaultMTUIn
	}
	if c.MTUOut == 0 {
		c.MTUOut = DefaultMTUOut
	}
	return c
}

// NewLoop constructs a Loop over nic, allocating buffer_in/buffer_out and
// every subsystem Config names. HTTP is always mounted on TCP port 80.
func NewLoop(nic NIC, cfg Config) *Loop {
	cfg = cfg.withDefaults()

	dhcp := dhcpv4.NewClient(cfg.MAC, cfg.Hostname, cfg.Log)
	tcpHandler := tcp.NewHandler(cfg.MAC, cfg.TCPPorts, cfg.Log)
	udpServer := udp.NewServer(cfg.UDPPorts, cfg.Log)
	httpHandler := httpd.NewHandler(cfg.HTTPPaths, cfg.Log)
	tcpHandler.Ports.Set(httpPort, httpHandler.Receive)

	l := &Loop{
		NIC:    nic,
		MAC:    cfg.MAC,
		DHCP:   dhcp,
		UDP:    udpServer,
		TCP:    tcpHandler,
		HTTP:   httpHandler,
		Log:    cfg.Log,
		onTick: cfg.OnTick,

		bufferIn:  make([]byte, cfg.MTUIn+1),
		bufferOut: make([]byte, cfg.MTUOut),
	}
	l.ARP.MyMAC = cfg.MAC
	l.ARP.MyIP = &dhcp.MyIP
	l.ARP.Log = cfg.Log
	return l
}

const httpPort = 80

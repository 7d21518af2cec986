package udp

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/internal"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/portsvc"
)

// Callback handles a received UDP payload. It may write a reply into a
// caller-supplied output buffer via Prepare/PrepareReply/Send; this
// function signature only carries the inbound payload, per spec.md §4.5.
type Callback func(payload []byte)

// Server dispatches inbound UDP datagrams to registered port callbacks, per
// spec.md §4.5's "Server" paragraph and §4.9's port-service registry.
type Server struct {
	Ports *portsvc.Table[uint16, Callback]
	Log   *slog.Logger
}

// NewServer returns a Server with room for capacity ports.
func NewServer(capacity int, log *slog.Logger) *Server {
	return &Server{Ports: portsvc.NewTable[uint16, Callback](capacity, "udp", log), Log: log}
}

// Receive looks up the destination port in in (a full Ethernet+IPv4+UDP
// frame) and, if registered, invokes the callback with the payload whose
// length is ip_total_length − 20 − 8, per spec.md §4.5.
func (s *Server) Receive(in []byte) {
	efrm, err := ethernet.NewFrame(in)
	if err != nil {
		return
	}
	ifrm, err := ipv4.NewFrame(efrm.Payload())
	if err != nil {
		return
	}
	ufrm, err := NewFrame(ifrm.Payload())
	if err != nil {
		internal.LogAttrs(s.Log, slog.LevelWarn, "udp:short")
		return
	}
	var v slashnet.Validator
	ufrm.ValidateSize(&v)
	if v.Err() != nil {
		internal.LogAttrs(s.Log, slog.LevelWarn, "udp:bad length")
		return
	}

	cb, ok := s.Ports.Get(ufrm.DestinationPort())
	if !ok {
		return
	}
	cb(ufrm.RawData()[sizeHeader:])
}

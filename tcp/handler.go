package tcp

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/internal"
	"github.com/slashdev/slashnet/ipv4"
	"github.com/slashdev/slashnet/portsvc"
)

// Callback handles a data segment directed at a registered port. It must
// append its reply payload to reply (via ReplyBuilder.Append) and finish by
// calling reply.Send, per spec.md §4.7's "otherwise (data segment)" branch.
type Callback func(payload []byte, reply *ReplyBuilder)

// ReplyBuilder is a write cursor into an already-prepared reply frame's
// payload area, the "(slice, write_index)" pattern spec.md §9's Design Note
// describes for the HTTP/TCP reply path.
type ReplyBuilder struct {
	out       []byte
	headerLen int // bytes before the payload area: 14+20+tcpHeaderLen.
	idx       int // bytes written so far, relative to headerLen.
	sent      int
}

// Append copies p into the reply buffer.
func (r *ReplyBuilder) Append(p []byte) { r.idx += copy(r.out[r.headerLen+r.idx:], p) }

// Len returns the number of payload bytes written so far.
func (r *ReplyBuilder) Len() int { return r.idx }

// Send finalizes IP/TCP lengths and checksums over the accumulated payload
// and returns the total frame length to hand to the NIC.
func (r *ReplyBuilder) Send() int {
	r.sent = Send(r.out, r.idx)
	return r.sent
}

// Handler dispatches inbound TCP segments per spec.md §4.7's receive
// classification: RST is logged and dropped, SYN and FIN get a zero-payload
// handshake reply, any other segment is handed to the registered port
// callback as a forced-close data exchange.
type Handler struct {
	MyMAC slashnet.MAC
	Ports *portsvc.Table[uint16, Callback]
	idNr  uint8
	seqNr uint8
	Log   *slog.Logger
}

// NewHandler returns a Handler with room for capacity registered ports.
func NewHandler(myMAC slashnet.MAC, capacity int, log *slog.Logger) *Handler {
	return &Handler{MyMAC: myMAC, Ports: portsvc.NewTable[uint16, Callback](capacity, "tcp", log), Log: log}
}

// Receive classifies an inbound Ethernet+IPv4+TCP frame in and writes a
// reply into out, returning the frame length to transmit and whether a
// reply was produced.
func (h *Handler) Receive(in []byte, out []byte) (txLen int, ok bool) {
	ein, err := ethernet.NewFrame(in)
	if err != nil {
		return 0, false
	}
	iin, err := ipv4.NewFrame(ein.Payload())
	if err != nil {
		return 0, false
	}
	tin, err := NewFrame(iin.Payload())
	if err != nil {
		internal.LogAttrs(h.Log, slog.LevelWarn, "tcp:short")
		return 0, false
	}
	var v slashnet.Validator
	tin.ValidateSize(&v)
	if v.Err() != nil {
		internal.LogAttrs(h.Log, slog.LevelWarn, "tcp:bad length")
		return 0, false
	}

	_, flags := tin.DataOffsetAndFlags()
	switch {
	case flags&FlagRST != 0:
		internal.LogAttrs(h.Log, slog.LevelInfo, "tcp:rst", slog.Uint64("port", uint64(tin.DestinationPort())))
		return 0, false

	case flags&FlagSYN != 0:
		h.seqNr++
		PrepareSYNACK(out, h.idNr, h.seqNr, in, h.MyMAC)
		h.idNr++
		return Send(out, 0), true

	case flags&FlagFIN != 0:
		h.idNr++
		reply := PrepareReply(out, h.idNr, in, h.MyMAC)
		reply.SetAck(reply.Ack() + 1)
		off, _ := reply.DataOffsetAndFlags()
		reply.SetDataOffsetAndFlags(off, FlagFIN|FlagACK)
		return Send(out, 0), true

	default:
		payloadLen := int(iin.TotalLength()) - slashnet.SizeIPv4Header - tin.HeaderLength()
		if payloadLen < 0 {
			payloadLen = 0
		}
		payload := tin.Payload()[:payloadLen]

		cb, registered := h.Ports.Get(tin.DestinationPort())
		if !registered {
			return 0, false
		}

		h.idNr++
		reply := PrepareReply(out, h.idNr, in, h.MyMAC)
		reply.SetAck(reply.Ack() + uint32(payloadLen))
		off, _ := reply.DataOffsetAndFlags()
		reply.SetDataOffsetAndFlags(off, FlagACK|FlagPSH|FlagFIN)

		rb := &ReplyBuilder{out: out, headerLen: slashnet.OffIPPayload + reply.HeaderLength()}
		cb(payload, rb)
		if rb.sent == 0 {
			rb.Send()
		}
		return rb.sent, true
	}
}

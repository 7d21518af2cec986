package arp

import (
	"log/slog"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/ethernet"
	"github.com/slashdev/slashnet/internal"
)

// NArp is the default number of entries in a Cache, per spec.md §3.
const NArp = 10

type cacheEntry struct {
	ip  slashnet.IP
	mac slashnet.MAC
}

// Cache is a fixed-size ARP resolution cache. Entries are never evicted by
// age, only overwritten when the write index wraps around, per spec.md §3.
// The zero value is an empty cache of NArp entries.
type Cache struct {
	entries    [NArp]cacheEntry
	cacheIndex int
}

// Lookup performs a linear scan for ip and returns its MAC address if
// present. An all-zero IP never matches: it is the empty-slot sentinel.
func (c *Cache) Lookup(ip slashnet.IP) (mac slashnet.MAC, ok bool) {
	if ip.IsZero() {
		return mac, false
	}
	for i := range c.entries {
		if c.entries[i].ip == ip {
			return c.entries[i].mac, true
		}
	}
	return mac, false
}

// has reports whether ip already has an entry, without exposing the MAC.
func (c *Cache) has(ip slashnet.IP) bool {
	_, ok := c.Lookup(ip)
	return ok
}

// save inserts {ip, mac} at the next write slot and advances the index mod
// NArp, per spec.md §4.3. Duplicate IPs are not overwritten — the save is
// skipped if the IP is already cached, matching spec.md's stated behavior.
func (c *Cache) save(ip slashnet.IP, mac slashnet.MAC) {
	if c.has(ip) {
		return
	}
	c.entries[c.cacheIndex] = cacheEntry{ip: ip, mac: mac}
	c.cacheIndex = (c.cacheIndex + 1) % NArp
}

// Index returns the next write slot, always < NArp (spec.md §8 invariant 4).
func (c *Cache) Index() int { return c.cacheIndex }

// Handler implements the ARP receive logic of spec.md §4.3: it answers
// requests for MyIP and learns replies into the Cache. It holds no
// goroutines; Receive runs to completion inside the caller's dispatch loop.
type Handler struct {
	Cache Cache
	MyMAC slashnet.MAC
	MyIP  *slashnet.IP // pointer: DHCP may still be acquiring this when Handler is constructed.

	// waiting is set by BeginRequest and cleared by Receive on an inbound
	// reply addressed to MyIP, per spec.md §4.3/§5 ("waiting" shared-state note).
	waiting bool

	Log *slog.Logger
}

// Waiting reports whether a request started by BeginRequest is outstanding.
func (h *Handler) Waiting() bool { return h.waiting }

// Receive classifies a received Ethernet+ARP frame (EtherType already
// confirmed to be ARP by the caller) and, for a request targeting MyIP,
// writes a 42-byte reply into out. It returns the number of bytes written
// to out (0 if no reply is warranted) per spec.md §4.3.
func (h *Handler) Receive(in []byte, out []byte) (replyLen int) {
	efrmIn, err := ethernet.NewFrame(in)
	if err != nil {
		return 0
	}
	afrmIn, err := NewFrame(efrmIn.Payload())
	if err != nil {
		internal.LogAttrs(h.Log, slog.LevelWarn, "arp:short", slog.Int("len", len(in)))
		return 0
	}

	switch afrmIn.Operation() {
	case slashnet.ARPRequest:
		if h.MyIP == nil || *afrmIn.TargetProtocol() != *h.MyIP {
			return 0 // not for us.
		}
		efrmOut, _ := ethernet.NewFrame(out)
		*efrmOut.Destination() = *efrmIn.Source()
		*efrmOut.Source() = h.MyMAC
		efrmOut.SetEtherType(slashnet.EtherTypeARP)
		afrmOut, _ := NewFrame(efrmOut.Payload())
		afrmOut.SetHeader()
		afrmOut.SetOperation(slashnet.ARPReply)
		*afrmOut.SenderHardware() = h.MyMAC
		*afrmOut.SenderProtocol() = *h.MyIP
		*afrmOut.TargetHardware() = *afrmIn.SenderHardware()
		*afrmOut.TargetProtocol() = *afrmIn.SenderProtocol()
		internal.LogAttrs(h.Log, slog.LevelInfo, "arp:reply",
			internal.SlogIP4("to", (*[4]byte)(afrmOut.TargetProtocol())))
		return sizeHeaderV4 + slashnet.SizeEthernetHeader

	case slashnet.ARPReply:
		if h.MyIP == nil || *afrmIn.TargetProtocol() != *h.MyIP {
			return 0 // not for us.
		}
		h.Cache.save(*afrmIn.SenderProtocol(), *afrmIn.SenderHardware())
		h.waiting = false
		return 0
	}
	return 0
}

// BeginRequest builds a broadcast ARP request for ip into out and marks a
// lookup as pending. The caller is responsible for transmitting the
// returned length and for polling Cache.Lookup/Waiting until satisfied —
// see stack.Loop.ResolveMAC, which implements the non-blocking poll loop
// spec.md §9's Design Note recommends in place of a reentrant call.
func (h *Handler) BeginRequest(ip slashnet.IP, out []byte) (reqLen int) {
	efrmOut, _ := ethernet.NewFrame(out)
	*efrmOut.Destination() = slashnet.BroadcastMAC
	*efrmOut.Source() = h.MyMAC
	efrmOut.SetEtherType(slashnet.EtherTypeARP)
	afrmOut, _ := NewFrame(efrmOut.Payload())
	afrmOut.SetHeader()
	afrmOut.SetOperation(slashnet.ARPRequest)
	*afrmOut.SenderHardware() = h.MyMAC
	if h.MyIP != nil {
		*afrmOut.SenderProtocol() = *h.MyIP
	}
	*afrmOut.TargetHardware() = slashnet.MAC{}
	*afrmOut.TargetProtocol() = ip
	h.waiting = true
	return sizeHeaderV4 + slashnet.SizeEthernetHeader
}

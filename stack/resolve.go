package stack

import "github.com/slashdev/slashnet"

// ResolveMAC looks up ip in the ARP cache and, on a miss, begins a request
// and polls the NIC up to maxPolls times waiting for the reply. This is the
// non-blocking alternative spec.md §9's Design Note proposes in place of
// the reentrant arp_request_mac: the caller bounds how long it is willing
// to spin, rather than looping forever on a lost reply. ok is false if the
// address is still unresolved after maxPolls attempts.
//
// Each poll also continues draining and dispatching whatever else the NIC
// has queued, matching spec.md §9's requirement that the original blocking
// wait keep the rest of the dispatch loop alive while it spins.
func (l *Loop) ResolveMAC(ip slashnet.IP, maxPolls int) (mac slashnet.MAC, ok bool) {
	if mac, ok := l.ARP.Cache.Lookup(ip); ok {
		return mac, true
	}
	if !l.ARP.Waiting() {
		n := l.ARP.BeginRequest(ip, l.bufferOut)
		l.NIC.Send(l.bufferOut, n)
	}
	for i := 0; i < maxPolls; i++ {
		l.Poll()
		if mac, ok := l.ARP.Cache.Lookup(ip); ok {
			return mac, true
		}
		if !l.ARP.Waiting() {
			break // a non-matching reply or cache churn cleared the wait without satisfying ip.
		}
	}
	return mac, false
}

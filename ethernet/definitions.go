// Package ethernet provides a minimal, allocation-free accessor over an
// Ethernet II frame header: 14 bytes, no 802.1Q VLAN tag. This MCU NIC never
// originates or expects VLAN-tagged traffic, per spec.md §3.
package ethernet

import "github.com/slashdev/slashnet"

const sizeHeader = slashnet.SizeEthernetHeader

// BroadcastAddr returns the all-0xff broadcast hardware address.
func BroadcastAddr() slashnet.MAC { return slashnet.BroadcastMAC }

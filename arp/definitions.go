// Package arp implements ARP (RFC 826) for IPv4-over-Ethernet only: request/
// reply framing, a fixed-size reply cache, and the receive handler spec.md
// §4.3 describes.
package arp

import "github.com/slashdev/slashnet"

const (
	sizeHeader   = 8
	sizeHeaderV4 = slashnet.SizeARPv4 // 8 + 2*(6+4)

	hwTypeEthernet = 1
)

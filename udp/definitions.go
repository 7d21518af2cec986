// Package udp provides a fixed-offset UDP accessor, the outgoing-header
// template (udp_prepare) and the port-keyed server dispatch spec.md §4.5
// describes.
package udp

import "github.com/slashdev/slashnet"

const sizeHeader = slashnet.SizeUDPHeader

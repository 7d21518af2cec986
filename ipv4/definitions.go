// Package ipv4 provides a minimal, allocation-free accessor over a fixed
// 20-byte IPv4 header (IHL always 5, no options), per spec.md §3/§4.2.
package ipv4

import "github.com/slashdev/slashnet"

const sizeHeader = slashnet.SizeIPv4Header

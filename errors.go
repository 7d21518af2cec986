package slashnet

import "errors"

// Shared sentinel errors. Per spec.md §7, no parse error is ever
// propagated out of the dispatch loop — these exist for unit tests and the
// logging call sites that report a dropped frame.
var (
	ErrShortBuffer  = errors.New("slashnet: buffer too short")
	ErrBadIPVersion = errors.New("slashnet: bad IP version")
	ErrBadIHL       = errors.New("slashnet: bad IHL")
	ErrBadCRC       = errors.New("slashnet: checksum mismatch")
)

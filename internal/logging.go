package internal

import "log/slog"

// LogAttrs logs msg at level with attrs if log is non-nil. Every call site
// in this module guards its logger this way so a device built without a
// logger attached pays no cost and drops no behavior, per spec.md §7.
func LogAttrs(log *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if log == nil {
		return
	}
	log.LogAttrs(nil, level, msg, attrs...)
}

// SlogMAC returns a slog.Attr for a MAC address packed into a uint64,
// avoiding the allocation a formatted hardware-address string would cost.
func SlogMAC(key string, addr *[6]byte) slog.Attr { return SlogAddr6(key, addr) }

// SlogIP4 returns a slog.Attr for an IPv4 address packed into a uint64.
func SlogIP4(key string, addr *[4]byte) slog.Attr { return SlogAddr4(key, addr) }

// Package portsvc implements the fixed-size service registry spec.md §4.9
// describes for UDP/TCP ports and, with a string key, for HTTP paths: a
// linear-scanned array of {key, callback} slots with no dynamic allocation
// and no sorting.
package portsvc

import "log/slog"

import "github.com/slashdev/slashnet/internal"

// Table is a fixed-capacity key→callback registry. The zero value is not
// usable; construct with NewTable. K must have a usable zero value that
// never occurs as a real key (0 for uint16 ports, "" for HTTP paths).
type Table[K comparable, V any] struct {
	keys  []K
	vals  []V
	log   *slog.Logger
	label string
}

// NewTable returns a Table with room for capacity entries. label is used
// only in log messages (e.g. "udp", "tcp", "http").
func NewTable[K comparable, V any](capacity int, label string, log *slog.Logger) *Table[K, V] {
	return &Table[K, V]{
		keys:  make([]K, capacity),
		vals:  make([]V, capacity),
		label: label,
		log:   log,
	}
}

// Set overwrites the callback for key if it already exists; otherwise it
// fills the first empty slot; if the table is full it logs and does
// nothing, per spec.md §4.9.
func (t *Table[K, V]) Set(key K, val V) {
	firstEmpty := -1
	for i, k := range t.keys {
		if k == key {
			t.vals[i] = val
			return
		}
		if firstEmpty < 0 && internal.IsZeroed(k) {
			firstEmpty = i
		}
	}
	if firstEmpty < 0 {
		internal.LogAttrs(t.log, slog.LevelInfo, "portsvc:table full", slog.String("table", t.label))
		return
	}
	t.keys[firstEmpty] = key
	t.vals[firstEmpty] = val
}

// Remove clears the first slot matching key.
func (t *Table[K, V]) Remove(key K) {
	var zeroK K
	var zeroV V
	for i, k := range t.keys {
		if k == key {
			t.keys[i] = zeroK
			t.vals[i] = zeroV
			return
		}
	}
}

// Get performs a linear search for key and returns its callback.
func (t *Table[K, V]) Get(key K) (val V, ok bool) {
	if internal.IsZeroed(key) {
		return val, false
	}
	for i, k := range t.keys {
		if k == key {
			return t.vals[i], true
		}
	}
	return val, false
}

package httpd

import (
	"log/slog"

	"github.com/slashdev/slashnet/internal"
	"github.com/slashdev/slashnet/portsvc"
	"github.com/slashdev/slashnet/tcp"
)

// PathCallback handles a request dispatched to a registered path. It must
// write a complete reply (WriteHeader + body writes + FinishReply, or
// WriteNotFound) before returning, mirroring tcp.Callback's contract one
// layer up.
type PathCallback func(method Method, path []byte, payload []byte, reply *tcp.ReplyBuilder)

// Handler dispatches inbound HTTP requests by path, per spec.md §4.8 and
// the path-service registry of §4.9.
type Handler struct {
	Paths *portsvc.Table[string, PathCallback]
	Log   *slog.Logger
}

// NewHandler returns a Handler with room for capacity registered paths.
func NewHandler(capacity int, log *slog.Logger) *Handler {
	return &Handler{Paths: portsvc.NewTable[string, PathCallback](capacity, "http", log), Log: log}
}

// Receive is registered as the tcp.Callback for the HTTP listen port. It
// parses the method and path, dispatches to the matching path-table entry,
// and writes the canned 404 on a miss or a malformed request line.
func (h *Handler) Receive(payload []byte, reply *tcp.ReplyBuilder) {
	method, path, ok := ParseRequestLine(payload)
	if !ok {
		internal.LogAttrs(h.Log, slog.LevelWarn, "http:malformed request")
		WriteNotFound(reply)
		return
	}

	cb, found := h.Paths.Get(string(path))
	if !found {
		WriteNotFound(reply)
		return
	}
	cb(method, path, payload, reply)
}

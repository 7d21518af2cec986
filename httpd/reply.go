package httpd

import (
	"strconv"

	"github.com/slashdev/slashnet/tcp"
)

// WriteHeader appends the status line, Content-Type header and blank line
// spec.md §4.8's reply_header describes, matching the wire format spec.md
// §6 pins down: "HTTP/1.1 <code> <reason>\r\nContent-Type: <mime>\r\n\r\n".
func WriteHeader(reply *tcp.ReplyBuilder, status int, ct ContentType) {
	reply.Append([]byte("HTTP/1.1 "))
	reply.Append([]byte(strconv.Itoa(status)))
	reply.Append([]byte(" "))
	reply.Append([]byte(reasonPhrase(status)))
	reply.Append([]byte("\r\nContent-Type: "))
	reply.Append([]byte(ct.mime()))
	reply.Append([]byte("\r\n\r\n"))
}

// WriteBody appends p to the reply body, corresponding to reply_add.
func WriteBody(reply *tcp.ReplyBuilder, p []byte) { reply.Append(p) }

// WriteBodyN appends at most n bytes of p, corresponding to reply_add_n's
// length-limited variant.
func WriteBodyN(reply *tcp.ReplyBuilder, p []byte, n int) {
	if len(p) > n {
		p = p[:n]
	}
	reply.Append(p)
}

// WriteBodyString appends a constant string body. The original's
// reply_add_p takes a program-memory pointer; Go has no separate
// program-memory address space, so this is a plain string append.
func WriteBodyString(reply *tcp.ReplyBuilder, s string) { reply.Append([]byte(s)) }

// FinishReply appends the two trailing CRLFs spec.md §4.8/§6 require after
// the body and hands the frame to tcp.ReplyBuilder.Send, corresponding to
// reply_send.
func FinishReply(reply *tcp.ReplyBuilder) int {
	reply.Append([]byte("\r\n\r\n"))
	return reply.Send()
}

// WriteNotFound writes the canned 404 reply spec.md §4.8 specifies
// byte-for-byte on a path-table miss.
func WriteNotFound(reply *tcp.ReplyBuilder) int {
	WriteHeader(reply, 404, ContentPlain)
	WriteBodyString(reply, "Not found")
	return FinishReply(reply)
}

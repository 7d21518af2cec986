package httpd_test

import (
	"testing"

	"github.com/slashdev/slashnet"
	"github.com/slashdev/slashnet/httpd"
	"github.com/slashdev/slashnet/tcp"
)

func TestWriteBodyNTruncates(t *testing.T) {
	myMAC := slashnet.MAC{1, 2, 3, 4, 5, 6}
	th := tcp.NewHandler(myMAC, 4, nil)
	hh := httpd.NewHandler(4, nil)
	hh.Paths.Set("/echo", func(method httpd.Method, path []byte, payload []byte, reply *tcp.ReplyBuilder) {
		httpd.WriteHeader(reply, 200, httpd.ContentJSON)
		httpd.WriteBodyN(reply, []byte("abcdef"), 3)
		httpd.FinishReply(reply)
	})
	th.Ports.Set(80, hh.Receive)

	in := buildRequest(t, "GET /echo HTTP/1.1\r\n\r\n")
	out := make([]byte, 256)
	n, ok := th.Receive(in, out)
	if !ok {
		t.Fatal("expected a reply")
	}
	body := tcpBodyOf(t, out, n)
	want := "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\nabc\r\n\r\n"
	if string(body) != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

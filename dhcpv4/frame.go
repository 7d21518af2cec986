package dhcpv4

import (
	"encoding/binary"

	"github.com/slashdev/slashnet"
)

const (
	sizeHeader   = 44  // op..chaddr, fixed BOOTP fields.
	sizeSName    = 64  // server name, legacy BOOTP field, always zeroed.
	sizeBootFile = 128 // boot file name, legacy BOOTP field, always zeroed.

	magicCookieOffset = sizeHeader + sizeSName + sizeBootFile
	optionsOffset     = magicCookieOffset + 4

	// sizeMinFrame is the smallest buffer a Frame can address: the fixed
	// header through the magic cookie, with no options.
	sizeMinFrame = optionsOffset
)

// Frame addresses the fixed BOOTP header fields and DHCP options of a
// DHCP/BOOTP payload (RFC 2131/1533), per spec.md §4.6's packet template.
type Frame struct{ buf []byte }

// NewFrame wraps buf, which must be at least large enough to hold the
// magic cookie (the options area may be empty).
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeMinFrame {
		return Frame{}, slashnet.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

func (f Frame) RawData() []byte { return f.buf }

func (f Frame) Op() uint8     { return f.buf[0] }
func (f Frame) SetOp(op byte) { f.buf[0] = op }

func (f Frame) SetHardware(htype, hlen, hops byte) { f.buf[1], f.buf[2], f.buf[3] = htype, hlen, hops }

func (f Frame) XID() [4]byte       { return [4]byte(f.buf[4:8]) }
func (f Frame) SetXID(xid [4]byte) { copy(f.buf[4:8], xid[:]) }

func (f Frame) SetSecs(s uint16) { binary.BigEndian.PutUint16(f.buf[8:10], s) }

func (f Frame) CIAddr() *slashnet.IP { return (*slashnet.IP)(f.buf[12:16]) }
func (f Frame) YIAddr() *slashnet.IP { return (*slashnet.IP)(f.buf[16:20]) }
func (f Frame) SIAddr() *slashnet.IP { return (*slashnet.IP)(f.buf[20:24]) }
func (f Frame) GIAddr() *slashnet.IP { return (*slashnet.IP)(f.buf[24:28]) }

func (f Frame) CHAddr() *slashnet.MAC { return (*slashnet.MAC)(f.buf[28:34]) }

func (f Frame) MagicCookie() uint32      { return binary.BigEndian.Uint32(f.buf[magicCookieOffset:]) }
func (f Frame) SetMagicCookie(v uint32) { binary.BigEndian.PutUint32(f.buf[magicCookieOffset:], v) }

// ClearHeader zeros the fixed header, sname and file fields, leaving
// options untouched. Every outgoing packet starts from a cleared header per
// spec.md §4.6's "sname+file zeroed" template.
func (f Frame) ClearHeader() {
	for i := range f.buf[:magicCookieOffset] {
		f.buf[i] = 0
	}
}

// Options returns the mutable options area following the magic cookie.
func (f Frame) Options() []byte { return f.buf[optionsOffset:] }

// ValidateSize records an error if buf is too short to hold a magic cookie.
func (f Frame) ValidateSize(v *slashnet.Validator) {
	if len(f.buf) < sizeMinFrame {
		v.AddError(slashnet.ErrShortBuffer)
	}
}

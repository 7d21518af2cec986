package httpd

import "bytes"

// classifyMethod switches on the first byte of a request line per spec.md
// §4.8: H->HEAD, G->GET, D->DELETE; P requires a look at byte 1, O->POST,
// U->PUT. Anything else yields MethodUnknown.
func classifyMethod(buf []byte) Method {
	if len(buf) == 0 {
		return MethodUnknown
	}
	switch buf[0] {
	case 'H':
		return MethodHead
	case 'G':
		return MethodGet
	case 'D':
		return MethodDelete
	case 'P':
		if len(buf) > 1 {
			switch buf[1] {
			case 'O':
				return MethodPost
			case 'U':
				return MethodPut
			}
		}
	}
	return MethodUnknown
}

// ParseRequestLine classifies the method and extracts the path of an
// inbound HTTP request line, per spec.md §4.8. Path extraction starts after
// the first space and scans forward while byte > 0x20; the terminating byte
// is overwritten with a NUL in place in buf, matching the NUL-terminated C
// string the original builds in its receive buffer. ok is false when no
// method/path separator or no path terminator can be found, in which case
// the caller should treat the request as malformed.
func ParseRequestLine(buf []byte) (method Method, path []byte, ok bool) {
	method = classifyMethod(buf)
	sp := bytes.IndexByte(buf, ' ')
	if sp < 0 {
		return method, nil, false
	}
	start := sp + 1
	end := start
	for end < len(buf) && buf[end] > 0x20 {
		end++
	}
	if end >= len(buf) {
		return method, nil, false
	}
	buf[end] = 0
	return method, buf[start:end], true
}

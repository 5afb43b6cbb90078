package h2session

import (
	"crypto/rand"

	"github.com/valyala/fastrand"
)

func uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bound check hint
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

func bytesToUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func uint32ToBytes(b []byte, n uint32) {
	_ = b[3]
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

func bytesToUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func appendUint32Bytes(dst []byte, n uint32) []byte {
	return append(dst, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

func resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]
	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}
	return b[:neededLen]
}

// cutPadding removes a PADDED frame's leading pad-length octet and trailing
// padding bytes from payload, returning the remaining content.
func cutPadding(payload []byte, length int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrMissingBytes
	}
	pad := int(payload[0])
	if pad > length-1 {
		return nil, ErrMissingBytes
	}
	return payload[1 : length-pad], nil
}

// addPadding appends a random amount of padding (and its leading length
// octet) to b, returning the new slice. Mirrors the teacher's use of
// fastrand for padding jitter instead of math/rand.
func addPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(256-9)) + 9
	nn := len(b)

	b = resize(b, nn+n+1)
	copy(b[1:], b[:nn])

	b[0] = uint8(n)
	rand.Read(b[nn+1 : nn+n+1])

	return b
}

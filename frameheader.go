package h2session

import (
	"bufio"
	"io"
	"sync"
)

const (
	// frameHeaderSize is the fixed 9-octet frame header size.
	//
	// https://httpwg.org/specs/rfc7540.html#FrameHeader
	frameHeaderSize = 9

	// DefaultMaxFrameSize is the protocol's default SETTINGS_MAX_FRAME_SIZE.
	DefaultMaxFrameSize = 1 << 14
)

var frameHeaderPool = sync.Pool{
	New: func() interface{} {
		return &FrameHeader{}
	},
}

// FrameHeader is the common 9-octet frame header plus the typed Frame body
// it carries.
//
// FrameHeader instances MUST NOT be used from more than one goroutine at a
// time; use AcquireFrameHeader/ReleaseFrameHeader to recycle them.
type FrameHeader struct {
	length int        // 24 bits
	kind   FrameType  // 8 bits
	flags  FrameFlags // 8 bits
	stream uint32     // 31 bits

	maxLen uint32

	rawHeader [frameHeaderSize]byte
	payload   []byte

	fr Frame
}

// AcquireFrameHeader returns a pooled, reset FrameHeader.
func AcquireFrameHeader() *FrameHeader {
	fr := frameHeaderPool.Get().(*FrameHeader)
	fr.Reset()
	return fr
}

// ReleaseFrameHeader releases fr's body to its pool and returns fr itself to
// the FrameHeader pool.
func ReleaseFrameHeader(fr *FrameHeader) {
	ReleaseFrame(fr.fr)
	frameHeaderPool.Put(fr)
}

// Reset clears fr so it can be reused for a different frame.
func (fr *FrameHeader) Reset() {
	fr.kind = 0
	fr.flags = 0
	fr.stream = 0
	fr.length = 0
	fr.maxLen = DefaultMaxFrameSize
	fr.fr = nil
	fr.payload = fr.payload[:0]
}

func (fr *FrameHeader) Type() FrameType   { return fr.kind }
func (fr *FrameHeader) Flags() FrameFlags { return fr.flags }
func (fr *FrameHeader) SetFlags(f FrameFlags) {
	fr.flags = f
}

// Stream returns the 31-bit stream id of the frame.
func (fr *FrameHeader) Stream() uint32 { return fr.stream }

// SetStream sets the stream id of the frame.
func (fr *FrameHeader) SetStream(stream uint32) {
	fr.stream = stream & (1<<31 - 1)
}

// Len returns the payload length as last parsed or serialized.
func (fr *FrameHeader) Len() int { return fr.length }

// MaxLen returns the negotiated maximum frame payload size enforced while
// reading.
func (fr *FrameHeader) MaxLen() uint32 { return fr.maxLen }

// SetMaxLen sets the maximum frame payload size enforced on the next read.
// A value of 0 disables the check.
func (fr *FrameHeader) SetMaxLen(max uint32) { fr.maxLen = max }

// Body returns the typed frame payload previously attached via SetBody or
// populated by ReadFrom/ReadFrameFrom.
func (fr *FrameHeader) Body() Frame { return fr.fr }

// SetBody attaches body to fr; body's Type() becomes fr's frame type.
func (fr *FrameHeader) SetBody(body Frame) {
	if body == nil {
		panic("FrameHeader.SetBody: body cannot be nil")
	}
	fr.kind = body.Type()
	fr.fr = body
}

func (fr *FrameHeader) setPayload(payload []byte) {
	fr.payload = append(fr.payload[:0], payload...)
}

func (fr *FrameHeader) checkLen() error {
	if fr.maxLen != 0 && fr.length > int(fr.maxLen) {
		return ErrPayloadExceedsMax
	}
	return nil
}

func (fr *FrameHeader) parseValues(header []byte) {
	fr.length = int(bytesToUint24(header[:3]))
	fr.kind = FrameType(header[3])
	fr.flags = FrameFlags(header[4])
	fr.stream = bytesToUint32(header[5:]) & (1<<31 - 1)
}

func (fr *FrameHeader) encodeHeader(header []byte) {
	uint24ToBytes(header[:3], uint32(fr.length))
	header[3] = byte(fr.kind)
	header[4] = byte(fr.flags)
	uint32ToBytes(header[5:], fr.stream)
}

// ReadFrameFrom reads and decodes the next frame from br using the default
// max frame size.
func ReadFrameFrom(br *bufio.Reader) (*FrameHeader, error) {
	return ReadFrameFromWithSize(br, DefaultMaxFrameSize)
}

// ReadFrameFromWithSize reads and decodes the next frame from br, enforcing
// the given negotiated max frame size. On error the FrameHeader (and any
// partially-acquired body) is released and nil is returned.
func ReadFrameFromWithSize(br *bufio.Reader, max uint32) (*FrameHeader, error) {
	fr := AcquireFrameHeader()
	fr.maxLen = max

	_, err := fr.readFrom(br)
	if err != nil {
		ReleaseFrameHeader(fr)
		return nil, err
	}

	return fr, nil
}

// ReadFrom reads one frame (header + payload) from br into fr.
//
// Unlike io.ReaderFrom this does not read until io.EOF.
func (fr *FrameHeader) ReadFrom(br *bufio.Reader) (int64, error) {
	return fr.readFrom(br)
}

func (fr *FrameHeader) readFrom(br *bufio.Reader) (int64, error) {
	header, err := br.Peek(frameHeaderSize)
	if err != nil {
		return 0, err
	}
	if _, err := br.Discard(frameHeaderSize); err != nil {
		return 0, err
	}

	rn := int64(frameHeaderSize)

	fr.parseValues(header)
	if err := fr.checkLen(); err != nil {
		return rn, err
	}

	if fr.kind > maxFrameType {
		if fr.length > 0 {
			if _, err := br.Discard(fr.length); err != nil {
				return rn, err
			}
		}
		return rn, ErrUnknownFrameType
	}

	fr.fr = AcquireFrame(fr.kind)

	if fr.length > 0 {
		fr.payload = resize(fr.payload, fr.length)

		n, err := io.ReadFull(br, fr.payload)
		rn += int64(n)
		if err != nil {
			return rn, err
		}
	}

	return rn, fr.fr.Deserialize(fr)
}

// WriteTo serializes fr's body and writes the resulting header+payload to
// bw. The written byte count covers only the header+payload, matching
// ReadFrom's accounting.
func (fr *FrameHeader) WriteTo(bw *bufio.Writer) (int64, error) {
	fr.fr.Serialize(fr)

	fr.length = len(fr.payload)
	fr.encodeHeader(fr.rawHeader[:])

	n, err := bw.Write(fr.rawHeader[:])
	wb := int64(n)
	if err != nil {
		return wb, err
	}

	n, err = bw.Write(fr.payload)
	wb += int64(n)

	return wb, err
}

package h2session

import "sync"

var windowUpdatePool = sync.Pool{
	New: func() interface{} { return &WindowUpdate{} },
}

var _ Frame = (*WindowUpdate)(nil)

// WindowUpdate credits either the connection-level window (stream id 0) or
// a single stream's window (stream id > 0).
//
// https://tools.ietf.org/html/rfc7540#section-6.9
type WindowUpdate struct {
	increment uint32
}

func (wu *WindowUpdate) Type() FrameType { return FrameWindowUpdate }

func (wu *WindowUpdate) Reset() { wu.increment = 0 }

func (wu *WindowUpdate) CopyTo(other *WindowUpdate) { other.increment = wu.increment }

// Increment returns the window size increment, 1..2^31-1.
func (wu *WindowUpdate) Increment() uint32 { return wu.increment }

// SetIncrement sets the window size increment.
func (wu *WindowUpdate) SetIncrement(n uint32) { wu.increment = n & (1<<31 - 1) }

func (wu *WindowUpdate) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		return ErrMissingBytes
	}
	wu.increment = bytesToUint32(fr.payload) & (1<<31 - 1)
	return nil
}

func (wu *WindowUpdate) Serialize(fr *FrameHeader) {
	fr.setPayload(appendUint32Bytes(nil, wu.increment))
}

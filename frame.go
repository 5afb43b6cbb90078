package h2session

import "fmt"

// FrameType identifies the kind of payload a frame carries.
//
// https://httpwg.org/specs/rfc7540.html#FrameTypes
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRstStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9

	minFrameType FrameType = FrameData
	maxFrameType FrameType = FrameContinuation
)

func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "DATA"
	case FrameHeaders:
		return "HEADERS"
	case FramePriority:
		return "PRIORITY"
	case FrameRstStream:
		return "RST_STREAM"
	case FrameSettings:
		return "SETTINGS"
	case FramePushPromise:
		return "PUSH_PROMISE"
	case FramePing:
		return "PING"
	case FrameGoAway:
		return "GOAWAY"
	case FrameWindowUpdate:
		return "WINDOW_UPDATE"
	case FrameContinuation:
		return "CONTINUATION"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", uint8(t))
	}
}

// FrameFlags is the 8-bit flags field of a frame header. A handful of flag
// bits are reused across frame types (e.g. 0x1 is ACK for SETTINGS/PING but
// END_STREAM for DATA/HEADERS); callers interpret them per frame type.
type FrameFlags uint8

const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

// Has reports whether f contains every bit in flag.
func (f FrameFlags) Has(flag FrameFlags) bool {
	return f&flag == flag
}

// Add returns f with flag set.
func (f FrameFlags) Add(flag FrameFlags) FrameFlags {
	return f | flag
}

// Frame is the per-type payload of an HTTP/2 frame. Implementations are
// dispatched by FrameType rather than through an inheritance hierarchy: the
// session handler switches on Type() and type-asserts to the concrete kind
// it expects.
type Frame interface {
	Type() FrameType
	Reset()
	// Serialize encodes the frame's fields into fr's payload and flags,
	// ready to be written to the wire.
	Serialize(fr *FrameHeader)
	// Deserialize decodes fr's payload and flags into the frame's fields.
	Deserialize(fr *FrameHeader) error
}

// AcquireFrame returns a pooled, reset Frame value for the given type, or
// nil if t is outside the known frame type range (the caller then treats
// the frame as opaque/unknown and discards it).
func AcquireFrame(t FrameType) Frame {
	switch t {
	case FrameData:
		return dataPool.Get().(*Data)
	case FrameHeaders:
		return headersPool.Get().(*Headers)
	case FramePriority:
		return priorityPool.Get().(*Priority)
	case FrameRstStream:
		return rstStreamPool.Get().(*RstStream)
	case FrameSettings:
		return settingsPool.Get().(*Settings)
	case FramePushPromise:
		return pushPromisePool.Get().(*PushPromise)
	case FramePing:
		return pingPool.Get().(*Ping)
	case FrameGoAway:
		return goAwayPool.Get().(*GoAway)
	case FrameWindowUpdate:
		return windowUpdatePool.Get().(*WindowUpdate)
	case FrameContinuation:
		return continuationPool.Get().(*Continuation)
	default:
		return nil
	}
}

// ReleaseFrame resets fr and returns it to its type's pool. It is a no-op
// for nil or unrecognized frames.
func ReleaseFrame(fr Frame) {
	if fr == nil {
		return
	}
	fr.Reset()

	switch f := fr.(type) {
	case *Data:
		dataPool.Put(f)
	case *Headers:
		headersPool.Put(f)
	case *Priority:
		priorityPool.Put(f)
	case *RstStream:
		rstStreamPool.Put(f)
	case *Settings:
		settingsPool.Put(f)
	case *PushPromise:
		pushPromisePool.Put(f)
	case *Ping:
		pingPool.Put(f)
	case *GoAway:
		goAwayPool.Put(f)
	case *WindowUpdate:
		windowUpdatePool.Put(f)
	case *Continuation:
		continuationPool.Put(f)
	}
}

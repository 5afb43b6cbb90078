package h2session

import "fmt"

// ErrorCode is an HTTP/2 error code as carried by RST_STREAM and GOAWAY frames.
//
// https://httpwg.org/specs/rfc7540.html#ErrorCodes
type ErrorCode uint32

const (
	ErrCodeNone               ErrorCode = 0x0
	ErrCodeProtocol           ErrorCode = 0x1
	ErrCodeInternal           ErrorCode = 0x2
	ErrCodeFlowControl        ErrorCode = 0x3
	ErrCodeSettingsTimeout    ErrorCode = 0x4
	ErrCodeStreamClosed       ErrorCode = 0x5
	ErrCodeFrameSize          ErrorCode = 0x6
	ErrCodeRefusedStream      ErrorCode = 0x7
	ErrCodeCancel             ErrorCode = 0x8
	ErrCodeCompression        ErrorCode = 0x9
	ErrCodeConnect            ErrorCode = 0xa
	ErrCodeEnhanceYourCalm    ErrorCode = 0xb
	ErrCodeInadequateSecurity ErrorCode = 0xc
	ErrCodeHTTP11Required     ErrorCode = 0xd
)

var errCodeNames = [...]string{
	"NO_ERROR", "PROTOCOL_ERROR", "INTERNAL_ERROR", "FLOW_CONTROL_ERROR",
	"SETTINGS_TIMEOUT", "STREAM_CLOSED", "FRAME_SIZE_ERROR", "REFUSED_STREAM",
	"CANCEL", "COMPRESSION_ERROR", "CONNECT_ERROR", "ENHANCE_YOUR_CALM",
	"INADEQUATE_SECURITY", "HTTP_1_1_REQUIRED",
}

func (c ErrorCode) String() string {
	if int(c) < len(errCodeNames) {
		return errCodeNames[c]
	}
	return fmt.Sprintf("UNKNOWN_ERROR(0x%x)", uint32(c))
}

// ConnError is a connection-level error: the dispatcher responds by writing
// GOAWAY(Code) and disposing of the session.
type ConnError struct {
	Code    ErrorCode
	Message string
}

func NewConnError(code ErrorCode, message string) *ConnError {
	return &ConnError{Code: code, Message: message}
}

func (e *ConnError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StreamError is a stream-scoped error: the dispatcher responds by writing at
// most one RST_STREAM(Code) on StreamID and continues serving the session.
type StreamError struct {
	StreamID uint32
	Code     ErrorCode
	Message  string
}

func NewStreamError(streamID uint32, code ErrorCode, message string) *StreamError {
	return &StreamError{StreamID: streamID, Code: code, Message: message}
}

func (e *StreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("stream %d: %s", e.StreamID, e.Code)
	}
	return fmt.Sprintf("stream %d: %s: %s", e.StreamID, e.Code, e.Message)
}

// Local errors: surfaced directly to the caller of a public API; the session
// keeps running.
type localError struct {
	msg string
}

func (e *localError) Error() string { return e.msg }

var (
	// ErrTooManyConcurrentStreams is returned by SendRequest when the remote
	// peer's advertised concurrency limit has been reached.
	ErrTooManyConcurrentStreams = &localError{"too many concurrent streams"}

	// ErrInvalidArgument is returned for nil headers or an out-of-range priority.
	ErrInvalidArgument = &localError{"invalid argument"}

	// ErrResourcePromised is returned by SendRequest when the requested path
	// matches an outstanding server push promise.
	ErrResourcePromised = &localError{"resource already promised"}

	// ErrSessionDisposed is returned by public APIs once the session has been
	// closed.
	ErrSessionDisposed = &localError{"session disposed"}

	// ErrSettingsAckTimeout is the local view of a SETTINGS-ack wait that timed
	// out; the session also writes GOAWAY(SETTINGS_TIMEOUT) and disposes.
	ErrSettingsAckTimeout = &localError{"timed out waiting for settings ack"}

	// ErrPingTimeout is the local view of a PING wait that timed out; the
	// session disposes as a side effect.
	ErrPingTimeout = &localError{"timed out waiting for ping ack"}

	// ErrBadPreface is returned on the server side when the client's preface
	// bytes don't match exactly.
	ErrBadPreface = &localError{"bad connection preface"}

	// ErrUnknownFrameType marks a frame type outside the known range; such
	// frames are discarded by the dispatcher, never surfaced as fatal.
	ErrUnknownFrameType = &localError{"unknown frame type"}

	// ErrMissingBytes is returned by a frame payload decoder when the frame is
	// too short to contain the fields its type requires.
	ErrMissingBytes = &localError{"frame payload too short"}

	// ErrPayloadExceedsMax is returned when a frame's length exceeds the
	// negotiated MaxFrameSize.
	ErrPayloadExceedsMax = &localError{"frame payload exceeds negotiated maximum size"}
)

package h2session

import "sync"

// StreamState is a stream's position in the HTTP/2 stream lifecycle.
//
//	idle ──send/recv HEADERS──▶ open
//	open ──send END_STREAM───▶ half-closed-local
//	open ──recv END_STREAM───▶ half-closed-remote
//	half-closed-local  ──recv END_STREAM──▶ closed
//	half-closed-remote ──send END_STREAM──▶ closed
//	any(non-closed) ──RST_STREAM sent/recv──▶ closed
//	open/half-closed (server→client) ──PUSH_PROMISE──▶ reserved-remote
//	reserved-remote ──recv HEADERS──▶ half-closed-local
type StreamState int8

const (
	StreamIdle StreamState = iota
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamReservedRemote:
		return "reserved-remote"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half-closed-local"
	case StreamHalfClosedRemote:
		return "half-closed-remote"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultStreamPriority and MaxPriority bound a stream's flat priority
// weight. The engine honors this single integer and does not build a
// dependency tree (see spec's priority non-goal).
const (
	MaxPriority            = 255
	DefaultStreamPriority  = MaxPriority / 2
)

// Stream is one logical, bidirectional sequence of frames sharing an
// identifier within a session.
//
// A Stream's send/receive windows are not stored here: it holds only a
// non-owning back-reference (by id) to the session's flow-control manager,
// per the ownership rules in §3 of the specification.
type Stream struct {
	mu sync.Mutex

	id       uint32
	priority uint8
	state    StreamState
	headers  []HeaderField

	framesSent uint64
	framesRecv uint64
	wasRstSent bool

	// origin records the frame type that opened the stream (HEADERS for an
	// ordinary request/response, PUSH_PROMISE for a server push), purely
	// for diagnostics/events.
	origin FrameType

	flow  *FlowControlManager
	queue *OutgoingQueue
}

func newStream(id uint32, priority uint8, flow *FlowControlManager, queue *OutgoingQueue) *Stream {
	return &Stream{
		id:       id,
		priority: priority,
		state:    StreamIdle,
		flow:     flow,
		queue:    queue,
	}
}

func (s *Stream) ID() uint32 { return s.id }

func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Stream) setState(state StreamState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Closed reports whether the stream has reached the terminal state.
func (s *Stream) Closed() bool {
	return s.State() == StreamClosed
}

func (s *Stream) Priority() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priority
}

func (s *Stream) SetPriority(p uint8) {
	s.mu.Lock()
	s.priority = p
	s.mu.Unlock()
}

// Headers returns the header list attached to the stream once its header
// block completed.
func (s *Stream) Headers() []HeaderField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers
}

func (s *Stream) setHeaders(h []HeaderField) {
	s.mu.Lock()
	s.headers = h
	s.mu.Unlock()
}

// SendWindow returns how many DATA bytes may currently be sent on this
// stream, delegating to the session's flow-control manager.
func (s *Stream) SendWindow() int64 {
	return s.flow.streamSendWindow(s.id)
}

// RecvWindow returns how many DATA bytes may currently be received on this
// stream before the embedder must send a WINDOW_UPDATE.
func (s *Stream) RecvWindow() int64 {
	return s.flow.streamRecvWindow(s.id)
}

func (s *Stream) incFramesSent() {
	s.mu.Lock()
	s.framesSent++
	s.mu.Unlock()
}

func (s *Stream) incFramesRecv() {
	s.mu.Lock()
	s.framesRecv++
	s.mu.Unlock()
}

// FramesSent and FramesRecv return per-stream frame counters.
func (s *Stream) FramesSent() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framesSent
}

func (s *Stream) FramesRecv() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framesRecv
}

// markRstSent reports whether this call is the first to mark the stream as
// having sent RST_STREAM; the caller uses the return value to enforce "at
// most one RST_STREAM per stream".
func (s *Stream) markRstSent() (first bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wasRstSent {
		return false
	}
	s.wasRstSent = true
	return true
}

// onSendEndStream transitions the stream after we send END_STREAM.
func (s *Stream) onSendEndStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StreamOpen:
		s.state = StreamHalfClosedLocal
	case StreamHalfClosedRemote:
		s.state = StreamClosed
	}
}

// onRecvEndStream transitions the stream after we receive END_STREAM.
func (s *Stream) onRecvEndStream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StreamOpen:
		s.state = StreamHalfClosedRemote
	case StreamHalfClosedLocal:
		s.state = StreamClosed
	}
}

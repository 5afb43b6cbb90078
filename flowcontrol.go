package h2session

import "sync"

// FlowControlManager tracks the connection-level and per-stream flow-control
// windows for one direction pair (our send window into the peer, and the
// peer's send window into us). Streams hold only a back-reference to their
// manager; the manager is the sole owner of window state, per the
// specification's ownership rules.
type FlowControlManager struct {
	mu sync.Mutex

	connSend int64
	connRecv int64

	streamSend map[uint32]int64
	streamRecv map[uint32]int64

	initialSend uint32
	initialRecv uint32
}

func newFlowControlManager(initialSend, initialRecv uint32) *FlowControlManager {
	return &FlowControlManager{
		connSend:    int64(DefaultInitialWindowSize),
		connRecv:    int64(DefaultInitialWindowSize),
		streamSend:  make(map[uint32]int64, 8),
		streamRecv:  make(map[uint32]int64),
		initialSend: initialSend,
		initialRecv: initialRecv,
	}
}

// RegisterStream seeds a new stream's windows from the currently negotiated
// initial window sizes.
func (f *FlowControlManager) RegisterStream(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamSend[id] = int64(f.initialSend)
	f.streamRecv[id] = int64(f.initialRecv)
}

// RemoveStream discards a closed stream's window accounting.
func (f *FlowControlManager) RemoveStream(id uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.streamSend, id)
	delete(f.streamRecv, id)
}

func (f *FlowControlManager) streamSendWindow(id uint32) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamSend[id]
}

func (f *FlowControlManager) streamRecvWindow(id uint32) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamRecv[id]
}

// ConnSendWindow returns how many DATA bytes may be sent, across all
// streams, before the connection-level window is exhausted.
func (f *FlowControlManager) ConnSendWindow() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connSend
}

// MaySend reports whether n DATA bytes may currently be sent on stream id
// without exceeding either the connection or the stream window.
func (f *FlowControlManager) MaySend(id uint32, n int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return n <= f.connSend && n <= f.streamSend[id]
}

// DebitSend subtracts n bytes from both the connection and the stream's send
// window after a DATA frame of that size was written.
func (f *FlowControlManager) DebitSend(id uint32, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connSend -= n
	f.streamSend[id] -= n
}

// DebitRecv subtracts n bytes from both the connection and the stream's
// receive window after a DATA frame of that size was read.
func (f *FlowControlManager) DebitRecv(id uint32, n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connRecv -= n
	f.streamRecv[id] -= n
}

// CreditConnSend applies a connection-level WINDOW_UPDATE increment.
func (f *FlowControlManager) CreditConnSend(n uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connSend += int64(n)
	if f.connSend > int64(MaxWindowSize) {
		return NewConnError(ErrCodeFlowControl, "connection send window overflow")
	}
	return nil
}

// CreditStreamSend applies a stream-level WINDOW_UPDATE increment.
func (f *FlowControlManager) CreditStreamSend(id uint32, n uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamSend[id] += int64(n)
	if f.streamSend[id] > int64(MaxWindowSize) {
		return NewStreamError(id, ErrCodeFlowControl, "stream send window overflow")
	}
	return nil
}

// CreditConnRecv applies a local increment (we issued a WINDOW_UPDATE) to
// our own receive-window accounting, used after the embedder consumes
// buffered DATA. The result is clamped to MaxWindowSize, mirroring the
// send-side overflow guard.
func (f *FlowControlManager) CreditConnRecv(n uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connRecv += int64(n)
	if f.connRecv > int64(MaxWindowSize) {
		f.connRecv = int64(MaxWindowSize)
	}
}

// CreditStreamRecv mirrors CreditConnRecv at stream scope.
func (f *FlowControlManager) CreditStreamRecv(id uint32, n uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamRecv[id] += int64(n)
	if f.streamRecv[id] > int64(MaxWindowSize) {
		f.streamRecv[id] = int64(MaxWindowSize)
	}
}

// sendCredit returns how many DATA bytes may currently be sent on stream id,
// the lesser of the connection and stream send windows, clamped to zero.
// Used by the outgoing queue to size a DATA chunk instead of gating
// all-or-nothing on the frame's full length.
func (f *FlowControlManager) sendCredit(id uint32) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	avail := f.connSend
	if s := f.streamSend[id]; s < avail {
		avail = s
	}
	if avail < 0 {
		return 0
	}
	return avail
}

// ApplyInitialWindowDelta implements SETTINGS_INITIAL_WINDOW_SIZE: every
// stream's send window shifts by (newValue - oldValue), per RFC 7540 §6.9.2.
// It returns a *ConnError(FLOW_CONTROL_ERROR) if any stream's window would
// overflow the legal range.
func (f *FlowControlManager) ApplyInitialWindowDelta(newValue uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delta := int64(newValue) - int64(f.initialSend)
	for id, w := range f.streamSend {
		nw := w + delta
		if nw > int64(MaxWindowSize) || nw < -int64(MaxWindowSize) {
			return NewConnError(ErrCodeFlowControl, "initial window size delta overflows a stream window")
		}
		f.streamSend[id] = nw
	}
	f.initialSend = newValue
	return nil
}

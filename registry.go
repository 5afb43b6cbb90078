package h2session

import "sync"

// DefaultMaxConcurrentStreams bounds how many streams either peer may have
// simultaneously open, absent an explicit SETTINGS_MAX_CONCURRENT_STREAMS.
const DefaultMaxConcurrentStreams = 250

// StreamRegistry owns the set of streams for one session. It tracks the
// last-used identifier for each side so new ids stay monotonically
// increasing and obey the client-odd/server-even parity rule, and it keeps
// recently-closed streams around as tombstones so frames that race a RST_STREAM
// resolve to a real (closed) Stream instead of a nil dereference.
type StreamRegistry struct {
	mu sync.Mutex

	role Role

	streams map[uint32]*Stream

	lastLocalID uint32
	lastPeerID  uint32

	maxConcurrentLocal uint32
	maxConcurrentPeer  uint32

	openLocal uint32
	openPeer  uint32

	flow  *FlowControlManager
	queue *OutgoingQueue
}

func newStreamRegistry(role Role, flow *FlowControlManager, queue *OutgoingQueue) *StreamRegistry {
	return &StreamRegistry{
		role:               role,
		streams:            make(map[uint32]*Stream),
		maxConcurrentLocal: DefaultMaxConcurrentStreams,
		maxConcurrentPeer:  DefaultMaxConcurrentStreams,
		flow:               flow,
		queue:              queue,
	}
}

func (r *StreamRegistry) firstLocalID() uint32 {
	if r.role == RoleClient {
		return 1
	}
	return 2
}

func (r *StreamRegistry) firstPeerID() uint32 {
	if r.role == RoleClient {
		return 2
	}
	return 1
}

// CreateOutbound allocates the next locally-initiated stream id (odd for a
// client, even for a server) and registers it in the open state.
func (r *StreamRegistry) CreateOutbound(priority uint8) (*Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.openLocal >= r.maxConcurrentLocal {
		return nil, ErrTooManyConcurrentStreams
	}

	var id uint32
	if r.lastLocalID == 0 {
		id = r.firstLocalID()
	} else {
		id = r.lastLocalID + 2
	}
	r.lastLocalID = id

	st := newStream(id, priority, r.flow, r.queue)
	st.setState(StreamOpen)
	r.streams[id] = st
	r.openLocal++
	r.flow.RegisterStream(id)

	return st, nil
}

// CreateInbound registers a stream opened by the peer via HEADERS.
func (r *StreamRegistry) CreateInbound(id uint32, priority uint8) (*Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id%2 != r.firstPeerID()%2 {
		return nil, NewConnError(ErrCodeProtocol, "stream id has the wrong parity for a peer-initiated stream")
	}
	if id <= r.lastPeerID {
		return nil, NewConnError(ErrCodeProtocol, "stream id not monotonically increasing")
	}
	if r.openPeer >= r.maxConcurrentPeer {
		return nil, ErrTooManyConcurrentStreams
	}

	r.lastPeerID = id

	st := newStream(id, priority, r.flow, r.queue)
	st.setState(StreamOpen)
	r.streams[id] = st
	r.openPeer++
	r.flow.RegisterStream(id)

	return st, nil
}

// CreatePushPromised reserves a stream id on behalf of a PUSH_PROMISE: the
// promised stream starts life in reserved-remote (from the client's point of
// view) rather than idle.
func (r *StreamRegistry) CreatePushPromised(id uint32) (*Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.streams[id]; ok {
		return nil, NewConnError(ErrCodeProtocol, "promised stream id already in use")
	}
	if id%2 != r.firstPeerID()%2 || id <= r.lastPeerID {
		return nil, NewConnError(ErrCodeProtocol, "promised stream id out of order or of the wrong parity")
	}
	r.lastPeerID = id

	st := newStream(id, DefaultStreamPriority, r.flow, r.queue)
	st.setState(StreamReservedRemote)
	st.origin = FramePushPromise
	r.streams[id] = st
	r.flow.RegisterStream(id)

	return st, nil
}

// SetMaxConcurrentLocal applies a peer-advertised SETTINGS_MAX_CONCURRENT_STREAMS,
// which bounds how many streams we (the local side) may have open at once.
func (r *StreamRegistry) SetMaxConcurrentLocal(n uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxConcurrentLocal = n
}

// Get returns the stream with the given id, if the registry still knows
// about it.
func (r *StreamRegistry) Get(id uint32) (*Stream, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.streams[id]
	return st, ok
}

// GetOrSynthesizeClosed returns the stream for id if known, or fabricates
// and registers a tombstone Stream already in the closed state when id was
// never opened (e.g. a RST_STREAM racing a stream's natural close, or a
// frame referencing an id the peer never actually opened). This keeps frame
// handlers working against a real *Stream instead of guarding every call
// site with a nil check.
func (r *StreamRegistry) GetOrSynthesizeClosed(id uint32) *Stream {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.streams[id]; ok {
		return st
	}

	st := newStream(id, DefaultStreamPriority, r.flow, r.queue)
	st.setState(StreamClosed)
	r.streams[id] = st
	return st
}

// Close marks a stream closed and releases its concurrency slot. The stream
// record itself is retained as a tombstone.
func (r *StreamRegistry) Close(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.streams[id]
	if !ok || st.State() == StreamClosed {
		return
	}

	isLocal := (r.role == RoleClient) == (id%2 == 1)
	if isLocal && r.openLocal > 0 {
		r.openLocal--
	} else if !isLocal && r.openPeer > 0 {
		r.openPeer--
	}

	st.setState(StreamClosed)
	r.flow.RemoveStream(id)
}

// ApplyGoAway closes every locally-initiated stream whose id is greater than
// lastPeerProcessedID, the set of streams the peer's GOAWAY tells us it will
// never act on.
func (r *StreamRegistry) ApplyGoAway(lastPeerProcessedID uint32) (abandoned []*Stream) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, st := range r.streams {
		isLocal := (r.role == RoleClient) == (id%2 == 1)
		if isLocal && id > lastPeerProcessedID && st.State() != StreamClosed {
			st.setState(StreamClosed)
			abandoned = append(abandoned, st)
		}
	}
	return abandoned
}

// CloseAll transitions every tracked stream to closed, used when the session
// itself is torn down.
func (r *StreamRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.streams {
		st.setState(StreamClosed)
	}
}

// Len reports how many streams the registry currently holds, including
// tombstones.
func (r *StreamRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

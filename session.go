package h2session

import (
	"bufio"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
)

// Role distinguishes which side of the connection a Session plays, which
// governs stream id parity and preface direction.
type Role bool

const (
	RoleClient Role = false
	RoleServer Role = true
)

const (
	settingsAckTimeout = 60 * time.Second
	pingAckTimeout     = 3 * time.Second
)

// Config carries the tunables a Session negotiates at startup, mirroring
// the SETTINGS parameters it will send.
type Config struct {
	MaxConcurrentStreams uint32
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	HeaderTableSize      uint32
	EnablePush           bool
	Logger               Logger
}

func (c *Config) applyDefaults() {
	if c.MaxConcurrentStreams == 0 {
		c.MaxConcurrentStreams = DefaultMaxConcurrentStreams
	}
	if c.InitialWindowSize == 0 {
		c.InitialWindowSize = DefaultInitialWindowSize
	}
	if c.MaxFrameSize == 0 {
		c.MaxFrameSize = DefaultMaxFrameSize
	}
	if c.HeaderTableSize == 0 {
		c.HeaderTableSize = DefaultHeaderTableSize
	}
	if c.Logger == nil {
		c.Logger = newDefaultLogger()
	}
}

// Session drives one HTTP/2 connection end to end: it owns the frame codec
// loop over a Transport, the stream registry, the flow-control manager, the
// outgoing queue, and the event surface an embedder subscribes to.
//
// A Session is safe for concurrent use by multiple goroutines once Start
// has returned.
type Session struct {
	role     Role
	isSecure bool
	cfg      Config

	transport Transport
	br        *bufio.Reader
	bw        *bufio.Writer

	registry  *StreamRegistry
	flow      *FlowControlManager
	queue     *OutgoingQueue
	events    *EventSurface
	promised  *PromisedResources
	headerSeq *HeaderSequencer

	// writeMu serializes SendRequest/WriteHeaders so two callers can never
	// interleave their HEADERS+CONTINUATION sequence with each other's, and
	// guards the single shared compressor against concurrent use.
	writeMu      sync.Mutex
	outHeaderSeq *HeaderSequencer

	compressor   Compressor
	decompressor Decompressor

	disposed  int32
	closeOnce sync.Once
	doneCh    chan struct{}
	cancel    <-chan struct{}

	settingsAckCh chan struct{}
	pingWaiters   map[[PingDataSize]byte]chan struct{}
	pingMu        sync.Mutex

	peerSettingsReceived int32
	goawayReceived       int32
	peerPushEnabled      int32
	peerMaxFrameSize     uint32

	lastStreamIDSeen uint32
}

// New constructs a Session bound to transport. isSecure marks a connection
// negotiated over TLS/ALPN (as opposed to a plaintext h2c upgrade), which
// enables the "peer's first frame must be SETTINGS" check. cancel, if
// non-nil, is an external signal that aborts both pumps and disposes the
// session when closed or sent to, independent of any protocol-level error.
func New(transport Transport, role Role, isSecure bool, cancel <-chan struct{}, cfg Config) *Session {
	cfg.applyDefaults()

	flow := newFlowControlManager(cfg.InitialWindowSize, cfg.InitialWindowSize)
	queue := newOutgoingQueue(flow)

	s := &Session{
		role:             role,
		isSecure:         isSecure,
		cfg:              cfg,
		transport:        transport,
		br:               bufio.NewReader(transport),
		bw:               bufio.NewWriter(transport),
		registry:         newStreamRegistry(role, flow, queue),
		flow:             flow,
		queue:            queue,
		events:           newEventSurface(),
		promised:         newPromisedResources(),
		headerSeq:        newHeaderSequencer(),
		outHeaderSeq:     newHeaderSequencer(),
		compressor:       NewCompressor(),
		decompressor:     NewDecompressor(cfg.HeaderTableSize),
		doneCh:           make(chan struct{}),
		cancel:           cancel,
		settingsAckCh:    make(chan struct{}, 1),
		pingWaiters:      make(map[[PingDataSize]byte]chan struct{}),
		peerPushEnabled:  1,
		peerMaxFrameSize: DefaultMaxFrameSize,
	}

	return s
}

// PushEnabled reports whether the peer's most recently received SETTINGS
// advertised SETTINGS_ENABLE_PUSH=1 (the default until told otherwise).
func (s *Session) PushEnabled() bool {
	return atomic.LoadInt32(&s.peerPushEnabled) != 0
}

// Subscribe registers h to receive the session's lifecycle and frame
// events. See EventSurface.Subscribe.
func (s *Session) Subscribe(h EventHandler) (unsubscribe func()) {
	return s.events.Subscribe(h)
}

// Start performs the connection preface handshake for the session's role,
// sends the initial SETTINGS frame, and launches the read and write pumps.
// If initialRequest is non-nil, Start then sends it through SendRequest on
// a new locally-initiated stream, whatever the role, followed by its body
// as DATA if it has one. It is not registered as an already-upgraded
// stream 1.
func (s *Session) Start(initialRequest *fasthttp.Request) error {
	if s.role == RoleClient {
		if err := writePreface(s.bw); err != nil {
			return err
		}
	} else {
		if err := readPreface(s.br); err != nil {
			return err
		}
	}

	go s.writePump()
	go s.readPump()

	if s.cancel != nil {
		go func() {
			select {
			case <-s.cancel:
				s.dispose()
			case <-s.doneCh:
			}
		}()
	}

	if err := s.WriteSettings(); err != nil {
		return err
	}

	if initialRequest != nil {
		return s.sendInitialRequest(initialRequest)
	}
	return nil
}

func (s *Session) sendInitialRequest(req *fasthttp.Request) error {
	hf := make([]HeaderField, 0, 4)
	hf = append(hf, HeaderField{key: []byte(":method"), value: append([]byte(nil), req.Header.Method()...)})
	hf = append(hf, HeaderField{key: []byte(":path"), value: append([]byte(nil), req.URI().RequestURI()...)})
	hf = append(hf, HeaderField{key: []byte(":scheme"), value: []byte("https")})
	hf = append(hf, HeaderField{key: []byte(":authority"), value: append([]byte(nil), req.Header.Host()...)})

	req.Header.VisitAll(func(k, v []byte) {
		hf = append(hf, HeaderField{key: append([]byte(nil), k...), value: append([]byte(nil), v...)})
	})

	_, err := s.SendRequest(hf, len(req.Body()) == 0)
	if err != nil {
		return err
	}
	if len(req.Body()) != 0 {
		return s.SendData(s.lastStreamIDSeen, req.Body(), true)
	}
	return nil
}

// SendRequest opens a new locally-initiated stream, compresses headers into
// a HEADERS (+CONTINUATION, if needed) block, and enqueues it for delivery.
// It returns the new stream's id.
func (s *Session) SendRequest(headers []HeaderField, endStream bool) (uint32, error) {
	if s.isDisposed() {
		return 0, ErrSessionDisposed
	}
	if len(headers) == 0 {
		return 0, ErrInvalidArgument
	}

	for i := range headers {
		if headers[i].Key() == ":path" {
			if _, promised := s.promised.Lookup(headers[i].Value()); promised {
				return 0, ErrResourcePromised
			}
			break
		}
	}

	st, err := s.registry.CreateOutbound(DefaultStreamPriority)
	if err != nil {
		return 0, err
	}
	s.lastStreamIDSeen = st.ID()

	if err := s.writeHeaderBlock(st.ID(), headers, endStream, false); err != nil {
		return 0, err
	}

	if endStream {
		st.onSendEndStream()
	}

	s.events.emit(Event{Type: EventRequestSent, StreamID: st.ID()})
	return st.ID(), nil
}

// WriteHeaders sends a header block (e.g. a response, or trailers) on an
// already-open streamID, as opposed to SendRequest which allocates a new
// locally-initiated stream.
func (s *Session) WriteHeaders(streamID uint32, headers []HeaderField, endStream bool) error {
	if s.isDisposed() {
		return ErrSessionDisposed
	}
	if len(headers) == 0 {
		return ErrInvalidArgument
	}

	if err := s.writeHeaderBlock(streamID, headers, endStream, false); err != nil {
		return err
	}

	if endStream {
		if st, ok := s.registry.Get(streamID); ok {
			st.onSendEndStream()
		}
	}
	return nil
}

// writeHeaderBlock HPACK-encodes headers and enqueues a HEADERS frame
// followed by as many CONTINUATION frames as the peer's negotiated max
// frame size requires. writeMu spans the whole compress-and-enqueue
// sequence so SendRequest/WriteHeaders calls from concurrent goroutines
// (the entire point of multiplexing several requests over one session)
// neither race on the shared HPACK encoder nor let a third stream's frame
// land on the wire between this block's HEADERS and its CONTINUATIONs.
func (s *Session) writeHeaderBlock(streamID uint32, headers []HeaderField, endStream, isPush bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.compressor.Reset()
	for i := range headers {
		if err := s.compressor.WriteField(&headers[i]); err != nil {
			return err
		}
	}
	block := s.compressor.Bytes()

	maxChunk := int(atomic.LoadUint32(&s.peerMaxFrameSize))
	first := block
	rest := []byte(nil)
	if len(first) > maxChunk {
		first, rest = block[:maxChunk], block[maxChunk:]
	}

	endHeaders := len(rest) == 0
	if err := s.outHeaderSeq.Begin(streamID, first, endHeaders, isPush); err != nil {
		return err
	}

	h := &Headers{}
	h.SetHeaderFragment(first)
	h.SetEndStream(endStream)
	h.SetEndHeaders(endHeaders)

	hdr := AcquireFrameHeader()
	hdr.SetStream(streamID)
	hdr.SetBody(h)
	s.queue.Enqueue(hdr, streamID)

	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > maxChunk {
			chunk = rest[:maxChunk]
		}
		rest = rest[len(chunk):]
		endHeaders = len(rest) == 0

		if err := s.outHeaderSeq.Continue(streamID, chunk, endHeaders); err != nil {
			return err
		}

		c := &Continuation{}
		c.SetHeaderFragment(chunk)
		c.SetEndHeaders(endHeaders)

		chdr := AcquireFrameHeader()
		chdr.SetStream(streamID)
		chdr.SetBody(c)
		s.queue.Enqueue(chdr, streamID)
	}

	s.outHeaderSeq.Take()
	return nil
}

// SendData enqueues payload for delivery as DATA on streamID. The write
// pump sends as much of it as the stream and connection flow-control
// windows currently admit, withholding and later resuming the remainder as
// WINDOW_UPDATE frames arrive, rather than waiting for the whole payload to
// fit at once.
func (s *Session) SendData(streamID uint32, payload []byte, endStream bool) error {
	if s.isDisposed() {
		return ErrSessionDisposed
	}

	s.queue.EnqueueData(streamID, payload, endStream)

	if endStream {
		if st, ok := s.registry.Get(streamID); ok {
			st.onSendEndStream()
		}
	}
	return nil
}

// WriteSettings enqueues our SETTINGS frame and blocks until the peer
// acknowledges it or settingsAckTimeout elapses.
func (s *Session) WriteSettings() error {
	st := &Settings{}
	st.Add(SettingMaxConcurrentStreams, s.cfg.MaxConcurrentStreams)
	st.Add(SettingInitialWindowSize, s.cfg.InitialWindowSize)
	st.Add(SettingMaxFrameSize, s.cfg.MaxFrameSize)
	st.Add(SettingHeaderTableSize, s.cfg.HeaderTableSize)
	if s.cfg.EnablePush {
		st.Add(SettingEnablePush, 1)
	} else {
		st.Add(SettingEnablePush, 0)
	}

	hdr := AcquireFrameHeader()
	hdr.SetBody(st)
	s.queue.Enqueue(hdr, 0)

	select {
	case <-s.settingsAckCh:
		s.events.emit(Event{Type: EventSettingsSent})
		return nil
	case <-time.After(settingsAckTimeout):
		_ = s.WriteGoAway(ErrCodeSettingsTimeout, nil)
		s.dispose()
		return ErrSettingsAckTimeout
	case <-s.doneCh:
		return ErrSessionDisposed
	}
}

// WriteGoAway enqueues a GOAWAY whose last-stream-id is lastStreamIDSeen,
// the id of the most recent stream this session opened with SendRequest (0
// if none), with the given error code and optional debug data.
func (s *Session) WriteGoAway(code ErrorCode, debugData []byte) error {
	ga := &GoAway{}
	ga.SetLastStreamID(s.lastStreamIDSeen)
	ga.SetCode(code)
	ga.SetDebugData(debugData)

	hdr := AcquireFrameHeader()
	hdr.SetBody(ga)
	s.queue.Enqueue(hdr, 0)
	return nil
}

// WriteConnectionWindowUpdate enqueues a connection-level WINDOW_UPDATE and
// credits our local view of the connection receive window.
func (s *Session) WriteConnectionWindowUpdate(n uint32) error {
	s.flow.CreditConnRecv(n)

	wu := &WindowUpdate{}
	wu.SetIncrement(n)

	hdr := AcquireFrameHeader()
	hdr.SetBody(wu)
	s.queue.Enqueue(hdr, 0)
	return nil
}

// Ping enqueues a PING frame carrying data and blocks until the peer's ACK
// arrives or pingAckTimeout elapses.
func (s *Session) Ping(data [PingDataSize]byte) error {
	wait := make(chan struct{})

	s.pingMu.Lock()
	s.pingWaiters[data] = wait
	s.pingMu.Unlock()

	p := &Ping{}
	p.SetData(data[:])

	hdr := AcquireFrameHeader()
	hdr.SetBody(p)
	s.queue.Enqueue(hdr, 0)

	select {
	case <-wait:
		return nil
	case <-time.After(pingAckTimeout):
		s.pingMu.Lock()
		delete(s.pingWaiters, data)
		s.pingMu.Unlock()
		s.dispose()
		return ErrPingTimeout
	case <-s.doneCh:
		return ErrSessionDisposed
	}
}

func (s *Session) isDisposed() bool {
	return atomic.LoadInt32(&s.disposed) != 0
}

// Close tears down the session: if the peer hasn't already sent us a
// GOAWAY, it first writes a self-initiated GOAWAY(lastStreamIDSeen, code);
// it then flushes any already-queued frames, disposes the outgoing queue,
// closes every tracked stream, and closes the underlying transport. Safe to
// call more than once and from any goroutine.
func (s *Session) Close(code ErrorCode) error {
	s.closeOnce.Do(func() {
		if atomic.LoadInt32(&s.goawayReceived) == 0 {
			_ = s.WriteGoAway(code, nil)
		}
		s.queue.Flush()
		s.dispose()
	})
	return nil
}

func (s *Session) dispose() {
	if !atomic.CompareAndSwapInt32(&s.disposed, 0, 1) {
		return
	}
	s.queue.Dispose()
	s.registry.CloseAll()
	close(s.doneCh)
	_ = s.transport.Close()
	s.events.emit(Event{Type: EventSessionDisposed})
}

func (s *Session) writePump() {
	for {
		fr, ok := s.queue.Next()
		if !ok {
			return
		}

		streamID := fr.Stream()
		isData := fr.Type() == FrameData

		_, err := fr.WriteTo(s.bw)
		if err == nil {
			err = s.bw.Flush()
		}

		if isData && err == nil {
			s.flow.DebitSend(streamID, int64(fr.Len()))
		}

		ReleaseFrameHeader(fr)

		if err != nil {
			s.cfg.Logger.Printf("h2session: write error: %v", err)
			s.dispose()
			return
		}
	}
}

func (s *Session) readPump() {
	for {
		fr, err := ReadFrameFromWithSize(s.br, s.cfg.MaxFrameSize)
		if err != nil {
			switch err {
			case ErrUnknownFrameType:
				continue
			case ErrPayloadExceedsMax:
				s.handleDispatchError(NewConnError(ErrCodeFrameSize, err.Error()), 0)
				return
			case ErrMissingBytes:
				s.handleDispatchError(NewConnError(ErrCodeFrameSize, err.Error()), 0)
				return
			default:
				// A genuine transport I/O failure: no GOAWAY, since we have no
				// confidence a write would even reach the peer.
				s.cfg.Logger.Printf("h2session: read error: %v", err)
				s.dispose()
				return
			}
		}

		if err := s.dispatch(fr); err != nil {
			s.handleDispatchError(err, fr.Stream())
		}

		s.events.emit(Event{Type: EventFrameReceived, StreamID: fr.Stream(), Frame: fr.Body()})
		ReleaseFrameHeader(fr)

		if s.isDisposed() {
			return
		}
	}
}

func (s *Session) handleDispatchError(err error, streamID uint32) {
	switch e := err.(type) {
	case *ConnError:
		_ = s.WriteGoAway(e.Code, []byte(e.Message))
		s.dispose()
	case *StreamError:
		if st, ok := s.registry.Get(e.StreamID); ok {
			if !st.markRstSent() {
				return
			}
		}
		rst := &RstStream{}
		rst.SetCode(e.Code)
		hdr := AcquireFrameHeader()
		hdr.SetStream(streamID)
		hdr.SetBody(rst)
		s.queue.Enqueue(hdr, streamID)
	default:
		s.cfg.Logger.Printf("h2session: dispatch error: %v", err)
	}
}

func (s *Session) dispatch(fr *FrameHeader) error {
	if s.isSecure && fr.Type() != FrameSettings && atomic.LoadInt32(&s.peerSettingsReceived) == 0 {
		return NewConnError(ErrCodeProtocol, "first frame from peer must be SETTINGS")
	}

	if _, open := s.headerSeq.Pending(); open && fr.Type() != FrameContinuation {
		return NewConnError(ErrCodeProtocol, "expected CONTINUATION frame")
	}

	switch fr.Type() {
	case FrameData:
		return s.handleData(fr)
	case FrameHeaders:
		return s.handleHeaders(fr)
	case FrameContinuation:
		return s.handleContinuation(fr)
	case FramePriority:
		return s.handlePriority(fr)
	case FrameRstStream:
		return s.handleRstStream(fr)
	case FrameSettings:
		return s.handleSettings(fr)
	case FramePushPromise:
		return s.handlePushPromise(fr)
	case FramePing:
		return s.handlePing(fr)
	case FrameGoAway:
		return s.handleGoAway(fr)
	case FrameWindowUpdate:
		return s.handleWindowUpdate(fr)
	default:
		return nil
	}
}

func (s *Session) handleData(fr *FrameHeader) error {
	d, ok := fr.Body().(*Data)
	if !ok {
		return nil
	}

	st := s.registry.GetOrSynthesizeClosed(fr.Stream())
	if st.Closed() {
		return NewStreamError(fr.Stream(), ErrCodeStreamClosed, "DATA on closed stream")
	}

	s.flow.DebitRecv(fr.Stream(), int64(d.Len()))
	st.incFramesRecv()

	if d.EndStream() {
		st.onRecvEndStream()
		s.promised.Remove(st.ID())
		if st.Closed() {
			s.registry.Close(st.ID())
			s.events.emit(Event{Type: EventStreamClosed, StreamID: st.ID()})
		}
	}

	return nil
}

func (s *Session) handleHeaders(fr *FrameHeader) error {
	h, ok := fr.Body().(*Headers)
	if !ok {
		return nil
	}

	streamID := fr.Stream()
	if streamID == 0 {
		return NewConnError(ErrCodeProtocol, "HEADERS on stream 0")
	}

	st, known := s.registry.Get(streamID)
	if !known {
		var err error
		st, err = s.registry.CreateInbound(streamID, DefaultStreamPriority)
		if err != nil {
			return err
		}
	} else if st.State() == StreamReservedRemote {
		st.setState(StreamHalfClosedLocal)
	}

	if h.hasPriority {
		st.SetPriority(h.Weight())
	}

	if err := s.headerSeq.Begin(streamID, h.HeaderFragment(), h.EndHeaders(), false); err != nil {
		return err
	}

	st.incFramesRecv()

	if h.EndHeaders() {
		if err := s.finishHeaderBlock(st); err != nil {
			return err
		}
	}

	if h.EndStream() {
		st.onRecvEndStream()
		if st.Closed() {
			s.registry.Close(st.ID())
			s.events.emit(Event{Type: EventStreamClosed, StreamID: st.ID()})
		}
	}

	return nil
}

func (s *Session) handleContinuation(fr *FrameHeader) error {
	c, ok := fr.Body().(*Continuation)
	if !ok {
		return nil
	}

	streamID, open := s.headerSeq.Pending()
	if !open {
		return NewConnError(ErrCodeProtocol, "unexpected CONTINUATION")
	}

	if err := s.headerSeq.Continue(fr.Stream(), c.HeaderFragment(), c.EndHeaders()); err != nil {
		return err
	}

	if c.EndHeaders() {
		st := s.registry.GetOrSynthesizeClosed(streamID)
		if err := s.finishHeaderBlock(st); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) finishHeaderBlock(st *Stream) error {
	block := s.headerSeq.Take()
	fields, err := s.decompressor.Decode(block)
	if err != nil {
		return NewConnError(ErrCodeCompression, err.Error())
	}
	st.setHeaders(fields)
	return nil
}

func (s *Session) handlePriority(fr *FrameHeader) error {
	p, ok := fr.Body().(*Priority)
	if !ok {
		return nil
	}
	st := s.registry.GetOrSynthesizeClosed(fr.Stream())
	st.SetPriority(p.Weight())
	return nil
}

func (s *Session) handleRstStream(fr *FrameHeader) error {
	_, ok := fr.Body().(*RstStream)
	if !ok {
		return nil
	}
	st := s.registry.GetOrSynthesizeClosed(fr.Stream())
	s.registry.Close(st.ID())
	s.promised.Remove(st.ID())
	s.events.emit(Event{Type: EventStreamClosed, StreamID: st.ID()})
	return nil
}

func (s *Session) handleSettings(fr *FrameHeader) error {
	set, ok := fr.Body().(*Settings)
	if !ok {
		return nil
	}

	atomic.StoreInt32(&s.peerSettingsReceived, 1)

	if set.Ack() {
		select {
		case s.settingsAckCh <- struct{}{}:
		default:
		}
		return nil
	}

	if v, ok := set.Get(SettingInitialWindowSize); ok {
		if err := s.flow.ApplyInitialWindowDelta(v); err != nil {
			return err
		}
		s.queue.wake()
	}
	if v, ok := set.Get(SettingHeaderTableSize); ok {
		s.compressor.SetMaxDynamicTableSize(v)
	}
	if v, ok := set.Get(SettingMaxConcurrentStreams); ok {
		s.registry.SetMaxConcurrentLocal(v)
	}
	if v, ok := set.Get(SettingMaxFrameSize); ok {
		if v < DefaultMaxFrameSize || v > MaxAllowedFrameSize {
			return NewConnError(ErrCodeProtocol, "invalid SETTINGS_MAX_FRAME_SIZE")
		}
		atomic.StoreUint32(&s.peerMaxFrameSize, v)
	}
	if v, ok := set.Get(SettingEnablePush); ok {
		if v > 1 {
			return NewConnError(ErrCodeProtocol, "invalid SETTINGS_ENABLE_PUSH")
		}
		atomic.StoreInt32(&s.peerPushEnabled, int32(v))
	}

	ack := &Settings{}
	ack.SetAck(true)
	hdr := AcquireFrameHeader()
	hdr.SetBody(ack)
	s.queue.Enqueue(hdr, 0)

	return nil
}

func (s *Session) handlePushPromise(fr *FrameHeader) error {
	pp, ok := fr.Body().(*PushPromise)
	if !ok {
		return nil
	}
	if !s.cfg.EnablePush {
		return NewConnError(ErrCodeProtocol, "PUSH_PROMISE received with push disabled")
	}

	st, err := s.registry.CreatePushPromised(pp.PromisedStreamID())
	if err != nil {
		return err
	}

	if err := s.headerSeq.Begin(pp.PromisedStreamID(), pp.HeaderFragment(), pp.EndHeaders(), true); err != nil {
		return err
	}
	if pp.EndHeaders() {
		if err := s.finishHeaderBlock(st); err != nil {
			return err
		}
		for _, hf := range st.Headers() {
			if hf.Key() == ":path" {
				s.promised.Insert(st.ID(), hf.Value())
			}
		}
	}

	return nil
}

func (s *Session) handlePing(fr *FrameHeader) error {
	p, ok := fr.Body().(*Ping)
	if !ok {
		return nil
	}

	if p.Ack() {
		var key [PingDataSize]byte
		copy(key[:], p.Data())

		s.pingMu.Lock()
		wait, found := s.pingWaiters[key]
		if found {
			delete(s.pingWaiters, key)
		}
		s.pingMu.Unlock()

		if found {
			close(wait)
		}
		return nil
	}

	reply := &Ping{}
	reply.SetAck(true)
	reply.SetData(p.Data())

	hdr := AcquireFrameHeader()
	hdr.SetBody(reply)
	s.queue.Enqueue(hdr, 0)
	return nil
}

func (s *Session) handleGoAway(fr *FrameHeader) error {
	ga, ok := fr.Body().(*GoAway)
	if !ok {
		return nil
	}

	atomic.StoreInt32(&s.goawayReceived, 1)

	abandoned := s.registry.ApplyGoAway(ga.LastStreamID())
	for _, st := range abandoned {
		s.events.emit(Event{Type: EventStreamClosed, StreamID: st.ID()})
	}

	s.dispose()
	return nil
}

func (s *Session) handleWindowUpdate(fr *FrameHeader) error {
	wu, ok := fr.Body().(*WindowUpdate)
	if !ok {
		return nil
	}

	if fr.Stream() == 0 {
		if err := s.flow.CreditConnSend(wu.Increment()); err != nil {
			return err
		}
	} else {
		if err := s.flow.CreditStreamSend(fr.Stream(), wu.Increment()); err != nil {
			return err
		}
	}

	s.queue.wake()
	return nil
}

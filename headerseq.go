package h2session

// HeaderSequencer enforces header-block atomicity: once a HEADERS or
// PUSH_PROMISE frame arrives without END_HEADERS, every other frame on the
// connection must be a CONTINUATION on that same stream until one arrives
// with END_HEADERS set. It also accumulates the fragments so the dispatcher
// can hand the complete block to a Decompressor in one call.
type HeaderSequencer struct {
	openStreamID uint32
	open         bool
	fragments    []byte
	isPush       bool
}

func newHeaderSequencer() *HeaderSequencer {
	return &HeaderSequencer{}
}

// Pending reports whether a header sequence is currently open, and on which
// stream.
func (s *HeaderSequencer) Pending() (streamID uint32, open bool) {
	return s.openStreamID, s.open
}

// Begin starts a new header sequence for streamID with its first fragment.
// It returns a *ConnError(PROTOCOL_ERROR) if a sequence is already open.
func (s *HeaderSequencer) Begin(streamID uint32, fragment []byte, endHeaders, isPush bool) error {
	if s.open {
		return NewConnError(ErrCodeProtocol, "new header block started before previous one ended")
	}
	s.fragments = append(s.fragments[:0], fragment...)
	s.openStreamID = streamID
	s.isPush = isPush
	s.open = !endHeaders
	return nil
}

// Continue appends a CONTINUATION fragment. It returns a
// *ConnError(PROTOCOL_ERROR) if no sequence is open or streamID doesn't
// match the stream the open sequence belongs to.
func (s *HeaderSequencer) Continue(streamID uint32, fragment []byte, endHeaders bool) error {
	if !s.open || streamID != s.openStreamID {
		return NewConnError(ErrCodeProtocol, "CONTINUATION without a matching open header block")
	}
	s.fragments = append(s.fragments, fragment...)
	if endHeaders {
		s.open = false
	}
	return nil
}

// Take returns the accumulated header block and resets the sequencer. Call
// only once Pending reports the sequence has ended (the frame that carried
// END_HEADERS).
func (s *HeaderSequencer) Take() []byte {
	block := s.fragments
	s.fragments = nil
	s.openStreamID = 0
	s.isPush = false
	return block
}

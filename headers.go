package h2session

import "sync"

var headersPool = sync.Pool{
	New: func() interface{} { return &Headers{} },
}

var _ Frame = (*Headers)(nil)

// Headers opens (or continues, via a header sequence) a stream's logical
// request or response header block.
//
// Flags: END_STREAM, END_HEADERS, PADDED, PRIORITY.
//
// https://tools.ietf.org/html/rfc7540#section-6.2
type Headers struct {
	hasPadding    bool
	hasPriority   bool
	streamDep     uint32
	weight        uint8
	endStream     bool
	endHeaders    bool
	rawHeaders    []byte // raw (possibly partial) HPACK-encoded header block fragment
}

func (h *Headers) Type() FrameType { return FrameHeaders }

func (h *Headers) Reset() {
	h.hasPadding = false
	h.hasPriority = false
	h.streamDep = 0
	h.weight = 0
	h.endStream = false
	h.endHeaders = false
	h.rawHeaders = h.rawHeaders[:0]
}

// CopyTo copies h's fields into other.
func (h *Headers) CopyTo(other *Headers) {
	other.hasPadding = h.hasPadding
	other.hasPriority = h.hasPriority
	other.streamDep = h.streamDep
	other.weight = h.weight
	other.endStream = h.endStream
	other.endHeaders = h.endHeaders
	other.rawHeaders = append(other.rawHeaders[:0], h.rawHeaders...)
}

// HeaderFragment returns the raw (HPACK-encoded) header block fragment
// carried by this frame.
func (h *Headers) HeaderFragment() []byte { return h.rawHeaders }

// SetHeaderFragment replaces the raw header block fragment.
func (h *Headers) SetHeaderFragment(b []byte) {
	h.rawHeaders = append(h.rawHeaders[:0], b...)
}

func (h *Headers) EndStream() bool     { return h.endStream }
func (h *Headers) SetEndStream(v bool) { h.endStream = v }
func (h *Headers) EndHeaders() bool    { return h.endHeaders }
func (h *Headers) SetEndHeaders(v bool) {
	h.endHeaders = v
}
func (h *Headers) Padding() bool     { return h.hasPadding }
func (h *Headers) SetPadding(v bool) { h.hasPadding = v }

// StreamDep and Weight describe the optional PRIORITY fields a HEADERS frame
// may carry. The engine honors the plain priority weight (see Priority
// frame) but does not build a dependency tree from StreamDep.
func (h *Headers) StreamDep() uint32 { return h.streamDep }
func (h *Headers) Weight() uint8     { return h.weight }
func (h *Headers) SetPriority(streamDep uint32, weight uint8) {
	h.hasPriority = true
	h.streamDep = streamDep & (1<<31 - 1)
	h.weight = weight
}

func (h *Headers) Deserialize(fr *FrameHeader) (err error) {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		payload, err = cutPadding(payload, fr.Len())
		if err != nil {
			return err
		}
	}

	if fr.Flags().Has(FlagPriority) {
		if len(payload) < 5 {
			return ErrMissingBytes
		}
		h.hasPriority = true
		h.streamDep = bytesToUint32(payload) & (1<<31 - 1)
		h.weight = payload[4]
		payload = payload[5:]
	}

	h.endStream = fr.Flags().Has(FlagEndStream)
	h.endHeaders = fr.Flags().Has(FlagEndHeaders)
	h.rawHeaders = append(h.rawHeaders[:0], payload...)

	return nil
}

func (h *Headers) Serialize(fr *FrameHeader) {
	payload := make([]byte, 0, 5+len(h.rawHeaders))

	if h.hasPriority {
		fr.SetFlags(fr.Flags().Add(FlagPriority))
		payload = appendUint32Bytes(payload, h.streamDep)
		payload = append(payload, h.weight)
	}

	payload = append(payload, h.rawHeaders...)

	if h.endStream {
		fr.SetFlags(fr.Flags().Add(FlagEndStream))
	}
	if h.endHeaders {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}
	if h.hasPadding {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		payload = addPadding(payload)
	}

	fr.setPayload(payload)
}

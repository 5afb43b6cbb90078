package h2session

import "sync"

var pushPromisePool = sync.Pool{
	New: func() interface{} { return &PushPromise{} },
}

var _ Frame = (*PushPromise)(nil)

// PushPromise announces a stream the server intends to push, along with the
// header block (request headers) for that future stream.
//
// Flags: END_HEADERS, PADDED.
//
// https://tools.ietf.org/html/rfc7540#section-6.6
type PushPromise struct {
	hasPadding  bool
	endHeaders  bool
	promisedID  uint32
	rawHeaders  []byte
}

func (pp *PushPromise) Type() FrameType { return FramePushPromise }

func (pp *PushPromise) Reset() {
	pp.hasPadding = false
	pp.endHeaders = false
	pp.promisedID = 0
	pp.rawHeaders = pp.rawHeaders[:0]
}

func (pp *PushPromise) CopyTo(other *PushPromise) {
	other.hasPadding = pp.hasPadding
	other.endHeaders = pp.endHeaders
	other.promisedID = pp.promisedID
	other.rawHeaders = append(other.rawHeaders[:0], pp.rawHeaders...)
}

// PromisedStreamID returns the stream id reserved for the pushed resource.
func (pp *PushPromise) PromisedStreamID() uint32 { return pp.promisedID }

// SetPromisedStreamID sets the stream id reserved for the pushed resource.
func (pp *PushPromise) SetPromisedStreamID(id uint32) {
	pp.promisedID = id & (1<<31 - 1)
}

// HeaderFragment returns the raw header block fragment carried by this frame.
func (pp *PushPromise) HeaderFragment() []byte { return pp.rawHeaders }

// SetHeaderFragment replaces the raw header block fragment.
func (pp *PushPromise) SetHeaderFragment(b []byte) {
	pp.rawHeaders = append(pp.rawHeaders[:0], b...)
}

func (pp *PushPromise) EndHeaders() bool     { return pp.endHeaders }
func (pp *PushPromise) SetEndHeaders(v bool) { pp.endHeaders = v }
func (pp *PushPromise) Padding() bool        { return pp.hasPadding }
func (pp *PushPromise) SetPadding(v bool)    { pp.hasPadding = v }

func (pp *PushPromise) Deserialize(fr *FrameHeader) (err error) {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		payload, err = cutPadding(payload, fr.Len())
		if err != nil {
			return err
		}
	}

	if len(payload) < 4 {
		return ErrMissingBytes
	}

	pp.promisedID = bytesToUint32(payload) & (1<<31 - 1)
	pp.rawHeaders = append(pp.rawHeaders[:0], payload[4:]...)
	pp.endHeaders = fr.Flags().Has(FlagEndHeaders)

	return nil
}

func (pp *PushPromise) Serialize(fr *FrameHeader) {
	payload := appendUint32Bytes(nil, pp.promisedID)
	payload = append(payload, pp.rawHeaders...)

	if pp.endHeaders {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}
	if pp.hasPadding {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		payload = addPadding(payload)
	}

	fr.setPayload(payload)
}

package h2session

import "sync"

var continuationPool = sync.Pool{
	New: func() interface{} { return &Continuation{} },
}

var _ Frame = (*Continuation)(nil)

// Continuation carries an additional fragment of a header block started by
// a HEADERS (or PUSH_PROMISE) frame. Flags: END_HEADERS.
//
// https://tools.ietf.org/html/rfc7540#section-6.10
type Continuation struct {
	endHeaders bool
	rawHeaders []byte
}

func (c *Continuation) Type() FrameType { return FrameContinuation }

func (c *Continuation) Reset() {
	c.endHeaders = false
	c.rawHeaders = c.rawHeaders[:0]
}

func (c *Continuation) CopyTo(other *Continuation) {
	other.endHeaders = c.endHeaders
	other.rawHeaders = append(other.rawHeaders[:0], c.rawHeaders...)
}

// HeaderFragment returns the raw header block fragment carried by this frame.
func (c *Continuation) HeaderFragment() []byte { return c.rawHeaders }

// SetHeaderFragment replaces the raw header block fragment.
func (c *Continuation) SetHeaderFragment(b []byte) {
	c.rawHeaders = append(c.rawHeaders[:0], b...)
}

func (c *Continuation) EndHeaders() bool     { return c.endHeaders }
func (c *Continuation) SetEndHeaders(v bool) { c.endHeaders = v }

func (c *Continuation) Deserialize(fr *FrameHeader) error {
	c.endHeaders = fr.Flags().Has(FlagEndHeaders)
	c.SetHeaderFragment(fr.payload)
	return nil
}

func (c *Continuation) Serialize(fr *FrameHeader) {
	if c.endHeaders {
		fr.SetFlags(fr.Flags().Add(FlagEndHeaders))
	}
	fr.setPayload(c.rawHeaders)
}

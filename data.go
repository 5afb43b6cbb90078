package h2session

import "sync"

var dataPool = sync.Pool{
	New: func() interface{} { return &Data{} },
}

var _ Frame = (*Data)(nil)

// Data carries the body octets of a request or response.
//
// Flags: END_STREAM, PADDED.
//
// https://tools.ietf.org/html/rfc7540#section-6.1
type Data struct {
	endStream  bool
	hasPadding bool
	b          []byte
}

func (d *Data) Type() FrameType { return FrameData }

func (d *Data) Reset() {
	d.endStream = false
	d.hasPadding = false
	d.b = d.b[:0]
}

// CopyTo copies d's fields into other.
func (d *Data) CopyTo(other *Data) {
	other.endStream = d.endStream
	other.hasPadding = d.hasPadding
	other.b = append(other.b[:0], d.b...)
}

// Data returns the frame's payload bytes.
func (d *Data) Data() []byte { return d.b }

// SetData replaces the frame's payload bytes.
func (d *Data) SetData(b []byte) { d.b = append(d.b[:0], b...) }

// Len returns the payload length.
func (d *Data) Len() int { return len(d.b) }

func (d *Data) EndStream() bool         { return d.endStream }
func (d *Data) SetEndStream(v bool)     { d.endStream = v }
func (d *Data) Padding() bool           { return d.hasPadding }
func (d *Data) SetPadding(v bool)       { d.hasPadding = v }

func (d *Data) Deserialize(fr *FrameHeader) error {
	payload := fr.payload

	if fr.Flags().Has(FlagPadded) {
		var err error
		payload, err = cutPadding(payload, fr.Len())
		if err != nil {
			return err
		}
	}

	d.endStream = fr.Flags().Has(FlagEndStream)
	d.b = append(d.b[:0], payload...)

	return nil
}

func (d *Data) Serialize(fr *FrameHeader) {
	if d.endStream {
		fr.SetFlags(fr.Flags().Add(FlagEndStream))
	}

	if d.hasPadding {
		fr.SetFlags(fr.Flags().Add(FlagPadded))
		d.b = addPadding(d.b)
	}

	fr.setPayload(d.b)
}

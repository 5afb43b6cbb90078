package h2session

import "sync"

var rstStreamPool = sync.Pool{
	New: func() interface{} { return &RstStream{} },
}

var _ Frame = (*RstStream)(nil)

// RstStream immediately terminates a stream.
//
// https://tools.ietf.org/html/rfc7540#section-6.4
type RstStream struct {
	code ErrorCode
}

func (r *RstStream) Type() FrameType { return FrameRstStream }

func (r *RstStream) Reset() { r.code = 0 }

func (r *RstStream) CopyTo(other *RstStream) { other.code = r.code }

func (r *RstStream) Code() ErrorCode     { return r.code }
func (r *RstStream) SetCode(c ErrorCode) { r.code = c }

func (r *RstStream) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 4 {
		return ErrMissingBytes
	}
	r.code = ErrorCode(bytesToUint32(fr.payload))
	return nil
}

func (r *RstStream) Serialize(fr *FrameHeader) {
	fr.setPayload(appendUint32Bytes(nil, uint32(r.code)))
}

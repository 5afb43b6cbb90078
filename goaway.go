package h2session

import (
	"fmt"
	"sync"
)

var goAwayPool = sync.Pool{
	New: func() interface{} { return &GoAway{} },
}

var _ Frame = (*GoAway)(nil)

// GoAway announces session termination along with the highest stream id the
// sender processed.
//
// https://tools.ietf.org/html/rfc7540#section-6.8
type GoAway struct {
	lastStreamID uint32
	code         ErrorCode
	debugData    []byte
}

func (ga *GoAway) Type() FrameType { return FrameGoAway }

func (ga *GoAway) Reset() {
	ga.lastStreamID = 0
	ga.code = 0
	ga.debugData = ga.debugData[:0]
}

func (ga *GoAway) CopyTo(other *GoAway) {
	other.lastStreamID = ga.lastStreamID
	other.code = ga.code
	other.debugData = append(other.debugData[:0], ga.debugData...)
}

func (ga *GoAway) Error() string {
	return fmt.Sprintf("goaway: lastStreamID=%d code=%s data=%q", ga.lastStreamID, ga.code, ga.debugData)
}

func (ga *GoAway) LastStreamID() uint32 { return ga.lastStreamID }
func (ga *GoAway) SetLastStreamID(id uint32) {
	ga.lastStreamID = id & (1<<31 - 1)
}

func (ga *GoAway) Code() ErrorCode     { return ga.code }
func (ga *GoAway) SetCode(c ErrorCode) { ga.code = c }

func (ga *GoAway) DebugData() []byte      { return ga.debugData }
func (ga *GoAway) SetDebugData(b []byte)  { ga.debugData = append(ga.debugData[:0], b...) }

func (ga *GoAway) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 8 {
		return ErrMissingBytes
	}
	ga.lastStreamID = bytesToUint32(fr.payload) & (1<<31 - 1)
	ga.code = ErrorCode(bytesToUint32(fr.payload[4:]))
	if rest := fr.payload[8:]; len(rest) != 0 {
		ga.debugData = append(ga.debugData[:0], rest...)
	}
	return nil
}

func (ga *GoAway) Serialize(fr *FrameHeader) {
	payload := appendUint32Bytes(nil, ga.lastStreamID)
	payload = appendUint32Bytes(payload, uint32(ga.code))
	payload = append(payload, ga.debugData...)
	fr.setPayload(payload)
}

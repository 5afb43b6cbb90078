package h2session

import "sync"

var priorityPool = sync.Pool{
	New: func() interface{} { return &Priority{} },
}

var _ Frame = (*Priority)(nil)

// Priority carries a stream's priority weight. The engine honors the weight
// as a flat per-stream integer (see Stream.Priority); it does not build a
// dependency tree from StreamDep, per spec's priority non-goal.
//
// https://tools.ietf.org/html/rfc7540#section-6.3
type Priority struct {
	streamDep uint32
	weight    uint8
}

func (p *Priority) Type() FrameType { return FramePriority }

func (p *Priority) Reset() {
	p.streamDep = 0
	p.weight = 0
}

func (p *Priority) CopyTo(other *Priority) {
	other.streamDep = p.streamDep
	other.weight = p.weight
}

func (p *Priority) StreamDep() uint32 { return p.streamDep }
func (p *Priority) SetStreamDep(id uint32) {
	p.streamDep = id & (1<<31 - 1)
}

func (p *Priority) Weight() uint8       { return p.weight }
func (p *Priority) SetWeight(w uint8)   { p.weight = w }

func (p *Priority) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < 5 {
		return ErrMissingBytes
	}
	p.streamDep = bytesToUint32(fr.payload) & (1<<31 - 1)
	p.weight = fr.payload[4]
	return nil
}

func (p *Priority) Serialize(fr *FrameHeader) {
	payload := appendUint32Bytes(nil, p.streamDep)
	payload = append(payload, p.weight)
	fr.setPayload(payload)
}

package h2session

import "sync"

// PingDataSize is the fixed size of a PING frame's opaque payload.
const PingDataSize = 8

var pingPool = sync.Pool{
	New: func() interface{} { return &Ping{} },
}

var _ Frame = (*Ping)(nil)

// Ping carries 8 bytes of opaque data that the receiver must echo back with
// the ACK flag set.
//
// https://tools.ietf.org/html/rfc7540#section-6.7
type Ping struct {
	ack  bool
	data [PingDataSize]byte
}

func (p *Ping) Type() FrameType { return FramePing }

func (p *Ping) Reset() {
	p.ack = false
	p.data = [PingDataSize]byte{}
}

func (p *Ping) CopyTo(other *Ping) {
	other.ack = p.ack
	other.data = p.data
}

func (p *Ping) Ack() bool     { return p.ack }
func (p *Ping) SetAck(v bool) { p.ack = v }

func (p *Ping) Data() []byte { return p.data[:] }
func (p *Ping) SetData(b []byte) {
	copy(p.data[:], b)
}

func (p *Ping) Deserialize(fr *FrameHeader) error {
	if len(fr.payload) < PingDataSize {
		return ErrMissingBytes
	}
	p.ack = fr.Flags().Has(FlagAck)
	p.SetData(fr.payload)
	return nil
}

func (p *Ping) Serialize(fr *FrameHeader) {
	if p.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
	}
	fr.setPayload(p.data[:])
}

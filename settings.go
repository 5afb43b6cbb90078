package h2session

import "sync"

// SettingID identifies a SETTINGS parameter.
//
// https://httpwg.org/specs/rfc7540.html#SettingValues
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

const (
	// DefaultHeaderTableSize is SETTINGS_HEADER_TABLE_SIZE's default.
	DefaultHeaderTableSize uint32 = 4096
	// DefaultInitialWindowSize is SETTINGS_INITIAL_WINDOW_SIZE's default.
	DefaultInitialWindowSize uint32 = 65535
	// MaxWindowSize is the largest legal flow-control window value.
	MaxWindowSize uint32 = 1<<31 - 1
	// MaxAllowedFrameSize is the largest legal SETTINGS_MAX_FRAME_SIZE value.
	MaxAllowedFrameSize uint32 = 1<<24 - 1
)

// SettingParam is a single SETTINGS key/value pair, preserving the spec's
// "settings key/value list" wire model.
type SettingParam struct {
	ID    SettingID
	Value uint32
}

var settingsPool = sync.Pool{
	New: func() interface{} { return &Settings{} },
}

var _ Frame = (*Settings)(nil)

// Settings carries connection-level parameters, or (with Ack set) an empty
// acknowledgement of a previously-received SETTINGS frame.
//
// https://tools.ietf.org/html/rfc7540#section-6.5
type Settings struct {
	ack    bool
	params []SettingParam
}

func (s *Settings) Type() FrameType { return FrameSettings }

func (s *Settings) Reset() {
	s.ack = false
	s.params = s.params[:0]
}

func (s *Settings) CopyTo(other *Settings) {
	other.ack = s.ack
	other.params = append(other.params[:0], s.params...)
}

// Ack reports whether this frame is an acknowledgement.
func (s *Settings) Ack() bool { return s.ack }

// SetAck marks this frame as an acknowledgement; an ACK SETTINGS frame
// carries no parameters.
func (s *Settings) SetAck(v bool) { s.ack = v }

// Params returns the ordered list of parameters carried by this frame.
func (s *Settings) Params() []SettingParam { return s.params }

// Add appends a parameter to the frame.
func (s *Settings) Add(id SettingID, value uint32) {
	s.params = append(s.params, SettingParam{ID: id, Value: value})
}

// Get returns the value of the first occurrence of id, if any.
func (s *Settings) Get(id SettingID) (uint32, bool) {
	for _, p := range s.params {
		if p.ID == id {
			return p.Value, true
		}
	}
	return 0, false
}

func (s *Settings) Deserialize(fr *FrameHeader) error {
	s.ack = fr.Flags().Has(FlagAck)

	payload := fr.payload
	if len(payload)%6 != 0 {
		return ErrMissingBytes
	}

	for i := 0; i+6 <= len(payload); i += 6 {
		id := SettingID(uint16(payload[i])<<8 | uint16(payload[i+1]))
		value := bytesToUint32(payload[i+2 : i+6])
		s.params = append(s.params, SettingParam{ID: id, Value: value})
	}

	return nil
}

func (s *Settings) Serialize(fr *FrameHeader) {
	if s.ack {
		fr.SetFlags(fr.Flags().Add(FlagAck))
		fr.setPayload(nil)
		return
	}

	payload := make([]byte, 0, 6*len(s.params))
	for _, p := range s.params {
		payload = append(payload, byte(p.ID>>8), byte(p.ID))
		payload = appendUint32Bytes(payload, p.Value)
	}

	fr.setPayload(payload)
}

package h2session

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// Compressor turns a header list into an HPACK-encoded header block
// fragment. It is the engine's write-side half of the external HPACK
// collaborator boundary described in the specification; the actual
// Huffman/dynamic-table machinery lives in golang.org/x/net/http2/hpack.
type Compressor interface {
	// WriteField appends hf's HPACK encoding to the internal buffer.
	WriteField(hf *HeaderField) error
	// Bytes returns the buffer accumulated since the last Reset.
	Bytes() []byte
	// Reset clears the accumulated buffer without touching the dynamic table.
	Reset()
	// SetMaxDynamicTableSize applies a peer-advertised
	// SETTINGS_HEADER_TABLE_SIZE to the encoder's dynamic table.
	SetMaxDynamicTableSize(v uint32)
}

type hpackCompressor struct {
	buf bytes.Buffer
	enc *hpack.Encoder
}

// NewCompressor returns a Compressor backed by golang.org/x/net/http2/hpack.
func NewCompressor() Compressor {
	c := &hpackCompressor{}
	c.enc = hpack.NewEncoder(&c.buf)
	return c
}

func (c *hpackCompressor) WriteField(hf *HeaderField) error {
	return c.enc.WriteField(hpack.HeaderField{
		Name:      hf.Key(),
		Value:     hf.Value(),
		Sensitive: hf.IsSensitive(),
	})
}

func (c *hpackCompressor) Bytes() []byte { return c.buf.Bytes() }

func (c *hpackCompressor) Reset() { c.buf.Reset() }

func (c *hpackCompressor) SetMaxDynamicTableSize(v uint32) {
	c.enc.SetMaxDynamicTableSize(v)
}

// Decompressor turns an HPACK-encoded header block fragment back into a
// header list. It is the read-side half of the HPACK collaborator boundary.
type Decompressor interface {
	// Decode parses a complete header block (the concatenation of every
	// HEADERS/CONTINUATION/PUSH_PROMISE fragment up to END_HEADERS) and
	// returns the header list it encodes.
	Decode(block []byte) ([]HeaderField, error)
	// SetMaxDynamicTableSize applies our own locally-configured
	// SETTINGS_HEADER_TABLE_SIZE to the decoder's dynamic table.
	SetMaxDynamicTableSize(v uint32)
}

type hpackDecompressor struct {
	dec    *hpack.Decoder
	fields []HeaderField
}

// NewDecompressor returns a Decompressor backed by golang.org/x/net/http2/hpack
// with the given initial dynamic table size.
func NewDecompressor(maxTableSize uint32) Decompressor {
	d := &hpackDecompressor{}
	d.dec = hpack.NewDecoder(maxTableSize, func(f hpack.HeaderField) {
		d.fields = append(d.fields, HeaderField{
			key:       []byte(f.Name),
			value:     []byte(f.Value),
			sensitive: f.Sensitive,
		})
	})
	return d
}

func (d *hpackDecompressor) Decode(block []byte) ([]HeaderField, error) {
	d.fields = d.fields[:0]

	if _, err := d.dec.Write(block); err != nil {
		return nil, err
	}
	if err := d.dec.Close(); err != nil {
		return nil, err
	}

	out := make([]HeaderField, len(d.fields))
	copy(out, d.fields)
	return out, nil
}

func (d *hpackDecompressor) SetMaxDynamicTableSize(v uint32) {
	d.dec.SetMaxDynamicTableSize(v)
}

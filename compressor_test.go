package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressorDecompressorRoundTrip(t *testing.T) {
	c := NewCompressor()

	fields := []HeaderField{}
	set := func(k, v string) {
		hf := HeaderField{}
		hf.Set(k, v)
		fields = append(fields, hf)
	}
	set(":method", "GET")
	set(":path", "/index.html")
	set("accept-encoding", "gzip")

	for i := range fields {
		require.NoError(t, c.WriteField(&fields[i]))
	}

	d := NewDecompressor(DefaultHeaderTableSize)
	got, err := d.Decode(c.Bytes())
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, ":method", got[0].Key())
	require.Equal(t, "GET", got[0].Value())
	require.Equal(t, "/index.html", got[1].Value())
	require.Equal(t, "gzip", got[2].Value())
}

func TestDecompressorRejectsTruncatedBlock(t *testing.T) {
	d := NewDecompressor(DefaultHeaderTableSize)
	_, err := d.Decode([]byte{0x40, 0x81}) // new-name literal whose 1-byte name never arrives
	require.Error(t, err)
}

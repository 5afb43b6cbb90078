package h2session

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameHeaderRoundTripData(t *testing.T) {
	d := &Data{}
	d.SetData([]byte("hello world"))
	d.SetEndStream(true)

	fr := AcquireFrameHeader()
	fr.SetStream(3)
	fr.SetBody(d)

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())
	ReleaseFrameHeader(fr)

	br := bufio.NewReader(&buf)
	got, err := ReadFrameFromWithSize(br, DefaultMaxFrameSize)
	require.NoError(t, err)
	defer ReleaseFrameHeader(got)

	require.Equal(t, FrameData, got.Type())
	require.EqualValues(t, 3, got.Stream())

	body, ok := got.Body().(*Data)
	require.True(t, ok)
	require.Equal(t, "hello world", string(body.Data()))
	require.True(t, body.EndStream())
}

func TestFrameHeaderRoundTripSettings(t *testing.T) {
	s := &Settings{}
	s.Add(SettingMaxConcurrentStreams, 100)
	s.Add(SettingInitialWindowSize, DefaultInitialWindowSize)

	fr := AcquireFrameHeader()
	fr.SetBody(s)

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())
	ReleaseFrameHeader(fr)

	br := bufio.NewReader(&buf)
	got, err := ReadFrameFromWithSize(br, DefaultMaxFrameSize)
	require.NoError(t, err)
	defer ReleaseFrameHeader(got)

	body, ok := got.Body().(*Settings)
	require.True(t, ok)
	require.False(t, body.Ack())

	v, ok := body.Get(SettingMaxConcurrentStreams)
	require.True(t, ok)
	require.EqualValues(t, 100, v)
}

func TestFrameHeaderRejectsOversizePayload(t *testing.T) {
	var header [9]byte
	uint24ToBytes(header[:3], 1<<20)
	header[3] = byte(FrameData)

	br := bufio.NewReader(bytes.NewReader(header[:]))
	_, err := ReadFrameFromWithSize(br, DefaultMaxFrameSize)
	require.ErrorIs(t, err, ErrPayloadExceedsMax)
}

func TestFrameHeaderUnknownTypeDiscardsPayload(t *testing.T) {
	var buf bytes.Buffer
	var header [9]byte
	payload := []byte("ignored")
	uint24ToBytes(header[:3], uint32(len(payload)))
	header[3] = 0x7f // outside the known frame type range
	buf.Write(header[:])
	buf.Write(payload)
	buf.WriteString("next")

	br := bufio.NewReader(&buf)
	_, err := ReadFrameFromWithSize(br, DefaultMaxFrameSize)
	require.ErrorIs(t, err, ErrUnknownFrameType)

	rest, err := br.Peek(4)
	require.NoError(t, err)
	require.Equal(t, "next", string(rest))
}

func TestPaddedDataRoundTrip(t *testing.T) {
	d := &Data{}
	d.SetData([]byte("payload"))
	d.SetPadding(true)

	fr := AcquireFrameHeader()
	fr.SetBody(d)

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	_, err := fr.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())
	ReleaseFrameHeader(fr)

	br := bufio.NewReader(&buf)
	got, err := ReadFrameFromWithSize(br, DefaultMaxFrameSize)
	require.NoError(t, err)
	defer ReleaseFrameHeader(got)

	body := got.Body().(*Data)
	require.Equal(t, "payload", string(body.Data()))
}

package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderFieldSizeAccountsForOverhead(t *testing.T) {
	hf := AcquireHeaderField()
	defer ReleaseHeaderField(hf)

	hf.Set(":path", "/")
	require.Equal(t, len(":path")+len("/")+32, hf.Size())
}

func TestHeaderFieldIsPseudo(t *testing.T) {
	hf := &HeaderField{}
	hf.Set(":method", "GET")
	require.True(t, hf.IsPseudo())

	hf.Set("content-type", "text/plain")
	require.False(t, hf.IsPseudo())
}

func TestHeaderFieldResetClearsSensitivity(t *testing.T) {
	hf := &HeaderField{}
	hf.Set("authorization", "secret")
	hf.SetSensitive(true)
	require.True(t, hf.IsSensitive())

	hf.Reset()
	require.True(t, hf.Empty())
	require.False(t, hf.IsSensitive())
}

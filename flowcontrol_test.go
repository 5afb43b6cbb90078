package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlowControlDebitAndCredit(t *testing.T) {
	f := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	f.RegisterStream(1)

	require.True(t, f.MaySend(1, 1000))
	f.DebitSend(1, 1000)
	require.EqualValues(t, int64(DefaultInitialWindowSize)-1000, f.streamSendWindow(1))
	require.EqualValues(t, int64(DefaultInitialWindowSize)-1000, f.ConnSendWindow())

	require.NoError(t, f.CreditStreamSend(1, 1000))
	require.EqualValues(t, DefaultInitialWindowSize, f.streamSendWindow(1))
}

func TestFlowControlMaySendRespectsBothWindows(t *testing.T) {
	f := newFlowControlManager(100, 100)
	f.RegisterStream(1)

	require.True(t, f.MaySend(1, 100))
	require.False(t, f.MaySend(1, 101))
}

func TestFlowControlCreditOverflowIsConnError(t *testing.T) {
	f := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	err := f.CreditConnSend(MaxWindowSize)
	require.Error(t, err)
	var connErr *ConnError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, ErrCodeFlowControl, connErr.Code)
}

func TestApplyInitialWindowDeltaShiftsAllStreams(t *testing.T) {
	f := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	f.RegisterStream(1)
	f.RegisterStream(3)

	require.NoError(t, f.ApplyInitialWindowDelta(DefaultInitialWindowSize + 1000))

	require.EqualValues(t, int64(DefaultInitialWindowSize)+1000, f.streamSendWindow(1))
	require.EqualValues(t, int64(DefaultInitialWindowSize)+1000, f.streamSendWindow(3))
}

func TestRemoveStreamDropsAccounting(t *testing.T) {
	f := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	f.RegisterStream(1)
	f.RemoveStream(1)
	require.Zero(t, f.streamSendWindow(1))
}

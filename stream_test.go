package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStream(id uint32) (*Stream, *FlowControlManager) {
	flow := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	flow.RegisterStream(id)
	queue := newOutgoingQueue(flow)
	st := newStream(id, DefaultStreamPriority, flow, queue)
	st.setState(StreamOpen)
	return st, flow
}

func TestStreamHalfCloseLifecycle(t *testing.T) {
	st, _ := newTestStream(1)

	st.onSendEndStream()
	require.Equal(t, StreamHalfClosedLocal, st.State())

	st.onRecvEndStream()
	require.Equal(t, StreamClosed, st.State())
	require.True(t, st.Closed())
}

func TestStreamHalfCloseOtherOrder(t *testing.T) {
	st, _ := newTestStream(1)

	st.onRecvEndStream()
	require.Equal(t, StreamHalfClosedRemote, st.State())

	st.onSendEndStream()
	require.Equal(t, StreamClosed, st.State())
}

func TestStreamMarkRstSentOnlyOnce(t *testing.T) {
	st, _ := newTestStream(1)
	require.True(t, st.markRstSent())
	require.False(t, st.markRstSent())
}

func TestStreamWindowsDelegateToFlowControl(t *testing.T) {
	st, flow := newTestStream(5)
	require.EqualValues(t, DefaultInitialWindowSize, st.SendWindow())

	flow.DebitSend(5, 500)
	require.EqualValues(t, int64(DefaultInitialWindowSize)-500, st.SendWindow())
}

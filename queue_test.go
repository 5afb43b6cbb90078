package h2session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrderForControlFrames(t *testing.T) {
	flow := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	q := newOutgoingQueue(flow)

	h1 := AcquireFrameHeader()
	h1.SetBody(&Ping{})
	h2 := AcquireFrameHeader()
	h2.SetBody(&Ping{})

	q.Enqueue(h1, 0)
	q.Enqueue(h2, 0)

	got1, ok := q.Next()
	require.True(t, ok)
	require.Same(t, h1, got1)

	got2, ok := q.Next()
	require.True(t, ok)
	require.Same(t, h2, got2)
}

func TestQueueSkipsFullyCreditStarvedData(t *testing.T) {
	flow := newFlowControlManager(10, 10)
	flow.RegisterStream(1)
	flow.DebitSend(1, 10) // exhaust stream 1's window entirely
	q := newOutgoingQueue(flow)

	small := AcquireFrameHeader()
	small.SetBody(&Ping{})

	q.EnqueueData(1, make([]byte, 50), true)
	q.Enqueue(small, 0)

	got, ok := q.Next()
	require.True(t, ok)
	require.Same(t, small, got, "the zero-credit DATA entry should be skipped in favor of the PING behind it")
}

func TestQueueSplitsDataToAvailableCredit(t *testing.T) {
	flow := newFlowControlManager(100, 100)
	flow.RegisterStream(5)
	q := newOutgoingQueue(flow)

	q.EnqueueData(5, make([]byte, 150), true)

	first, ok := q.Next()
	require.True(t, ok)
	d, isData := first.Body().(*Data)
	require.True(t, isData)
	require.Len(t, d.Data(), 100)
	require.False(t, d.EndStream(), "the withheld remainder means this chunk cannot carry END_STREAM yet")

	// Debit what the write pump would have, then credit a WINDOW_UPDATE(5, 50)
	// the way handleWindowUpdate does, and confirm the rest is now sendable.
	flow.DebitSend(5, 100)
	require.NoError(t, flow.CreditStreamSend(5, 50))
	require.NoError(t, flow.CreditConnSend(50))
	q.wake()

	second, ok := q.Next()
	require.True(t, ok)
	d2, isData := second.Body().(*Data)
	require.True(t, isData)
	require.Len(t, d2.Data(), 50)
	require.True(t, d2.EndStream())
}

func TestQueueDisposeUnblocksNext(t *testing.T) {
	flow := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	q := newOutgoingQueue(flow)

	done := make(chan struct{})
	go func() {
		_, ok := q.Next()
		require.False(t, ok)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Dispose()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock after Dispose")
	}
}

func TestQueueFlushBlocksUntilDrained(t *testing.T) {
	flow := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	q := newOutgoingQueue(flow)

	h := AcquireFrameHeader()
	h.SetBody(&Ping{})
	q.Enqueue(h, 0)

	flushed := make(chan struct{})
	go func() {
		q.Flush()
		close(flushed)
	}()

	select {
	case <-flushed:
		t.Fatal("Flush returned before the queue drained")
	case <-time.After(20 * time.Millisecond):
	}

	_, ok := q.Next()
	require.True(t, ok)

	select {
	case <-flushed:
	case <-time.After(time.Second):
		t.Fatal("Flush did not unblock after drain")
	}
}

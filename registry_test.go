package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRegistry(role Role) *StreamRegistry {
	flow := newFlowControlManager(DefaultInitialWindowSize, DefaultInitialWindowSize)
	queue := newOutgoingQueue(flow)
	return newStreamRegistry(role, flow, queue)
}

func TestCreateOutboundParity(t *testing.T) {
	r := newTestRegistry(RoleClient)

	st1, err := r.CreateOutbound(DefaultStreamPriority)
	require.NoError(t, err)
	require.EqualValues(t, 1, st1.ID())

	st2, err := r.CreateOutbound(DefaultStreamPriority)
	require.NoError(t, err)
	require.EqualValues(t, 3, st2.ID())
}

func TestCreateOutboundServerParity(t *testing.T) {
	r := newTestRegistry(RoleServer)

	st1, err := r.CreateOutbound(DefaultStreamPriority)
	require.NoError(t, err)
	require.EqualValues(t, 2, st1.ID())
}

func TestCreateInboundRejectsNonMonotonicID(t *testing.T) {
	r := newTestRegistry(RoleServer)

	_, err := r.CreateInbound(5, DefaultStreamPriority)
	require.NoError(t, err)

	_, err = r.CreateInbound(3, DefaultStreamPriority)
	require.Error(t, err)
}

func TestGetOrSynthesizeClosedFabricatesTombstone(t *testing.T) {
	r := newTestRegistry(RoleServer)

	st := r.GetOrSynthesizeClosed(99)
	require.True(t, st.Closed())

	again := r.GetOrSynthesizeClosed(99)
	require.Same(t, st, again)
}

func TestCloseReleasesConcurrencySlot(t *testing.T) {
	r := newTestRegistry(RoleClient)
	st, err := r.CreateOutbound(DefaultStreamPriority)
	require.NoError(t, err)

	r.Close(st.ID())
	require.True(t, st.Closed())
	require.EqualValues(t, 0, r.openLocal)
}

func TestApplyGoAwayClosesUnprocessedLocalStreams(t *testing.T) {
	r := newTestRegistry(RoleClient)
	st1, _ := r.CreateOutbound(DefaultStreamPriority)
	st2, _ := r.CreateOutbound(DefaultStreamPriority)

	abandoned := r.ApplyGoAway(st1.ID())

	require.Len(t, abandoned, 1)
	require.Equal(t, st2.ID(), abandoned[0].ID())
	require.True(t, st2.Closed())
	require.False(t, st1.Closed())
}

func TestMaxConcurrentStreamsEnforced(t *testing.T) {
	r := newTestRegistry(RoleClient)
	r.maxConcurrentLocal = 1

	_, err := r.CreateOutbound(DefaultStreamPriority)
	require.NoError(t, err)

	_, err = r.CreateOutbound(DefaultStreamPriority)
	require.ErrorIs(t, err, ErrTooManyConcurrentStreams)
}

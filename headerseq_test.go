package h2session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderSequencerAccumulatesFragments(t *testing.T) {
	s := newHeaderSequencer()

	require.NoError(t, s.Begin(1, []byte("abc"), false, false))

	id, open := s.Pending()
	require.True(t, open)
	require.EqualValues(t, 1, id)

	require.NoError(t, s.Continue(1, []byte("def"), true))

	_, open = s.Pending()
	require.False(t, open)
	require.Equal(t, "abcdef", string(s.Take()))
}

func TestHeaderSequencerRejectsWrongStream(t *testing.T) {
	s := newHeaderSequencer()
	require.NoError(t, s.Begin(1, []byte("a"), false, false))

	err := s.Continue(2, []byte("b"), true)
	require.Error(t, err)
}

func TestHeaderSequencerRejectsOverlappingBegin(t *testing.T) {
	s := newHeaderSequencer()
	require.NoError(t, s.Begin(1, []byte("a"), false, false))

	err := s.Begin(3, []byte("b"), false, false)
	require.Error(t, err)
}

func TestHeaderSequencerSingleFrameCompletesImmediately(t *testing.T) {
	s := newHeaderSequencer()
	require.NoError(t, s.Begin(1, []byte("whole"), true, false))

	_, open := s.Pending()
	require.False(t, open)
	require.Equal(t, "whole", string(s.Take()))
}

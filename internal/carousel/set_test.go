package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_IndependentInstances(t *testing.T) {
	s := NewSet(0)
	t.Cleanup(s.StopAll)

	a := s.Get("room-a", photos(3))
	b := s.Get("room-b", photos(4))
	require.NotSame(t, a, b)
	assert.Same(t, a, s.Get("room-a", photos(3)))

	a.StepRight()
	a.StepRight()
	b.StepLeft()

	assert.Equal(t, 2, a.Index())
	assert.Equal(t, 3, b.Index())
	assert.Equal(t, 2, s.Len())
}

func TestSet_GetReplacesChangedItems(t *testing.T) {
	s := NewSet(0)
	t.Cleanup(s.StopAll)

	c := s.Get("room-a", photos(3))
	c.StepLeft()

	s.Get("room-a", photos(3))
	assert.Equal(t, 2, c.Index(), "same items keep the index")

	s.Get("room-a", photos(2))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 0, c.Index())
}

func TestSet_TimersAreIndependent(t *testing.T) {
	s := NewSet(5 * time.Millisecond)
	t.Cleanup(s.StopAll)

	a := s.Get("room-a", photos(3))
	b := s.Get("room-b", photos(3))

	a.Open(0)
	require.Eventually(t, func() bool { return a.Index() != 0 }, time.Second, time.Millisecond)

	assert.True(t, a.Advancing())
	assert.False(t, b.Advancing())
	assert.Equal(t, 0, b.Index())

	a.Close()
	assert.False(t, a.Advancing())
}

func TestSet_StopAll(t *testing.T) {
	s := NewSet(time.Millisecond)

	a := s.Get("room-a", photos(3))
	b := s.Get("room-b", photos(3))
	a.Open(0)
	b.Open(0)

	s.StopAll()

	assert.False(t, a.Advancing())
	assert.False(t, b.Advancing())
	assert.Zero(t, s.Len())

	select {
	case <-s.Changed():
	default:
		t.Error("set did not relay carousel changes")
	}
}

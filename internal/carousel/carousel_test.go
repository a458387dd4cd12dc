package carousel

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/hotelview/internal/errs"
)

func photos(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://img.test/%d.jpg", i)
	}
	return out
}

func TestCarousel_StepRoundTrip(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for i := range n {
			c := New(photos(n))
			require.NoError(t, c.JumpTo(i))

			c.StepLeft()
			c.StepRight()
			assert.Equal(t, i, c.Index(), "left then right, n=%d i=%d", n, i)

			c.StepRight()
			c.StepLeft()
			assert.Equal(t, i, c.Index(), "right then left, n=%d i=%d", n, i)
		}
	}
}

func TestCarousel_Wraparound(t *testing.T) {
	for n := 1; n <= 7; n++ {
		c := New(photos(n))

		c.StepLeft()
		assert.Equal(t, n-1, c.Index(), "left from 0, n=%d", n)

		c.StepRight()
		assert.Equal(t, 0, c.Index(), "right from last, n=%d", n)
	}
}

func TestCarousel_Empty(t *testing.T) {
	c := New(nil)

	assert.NotPanics(t, func() {
		c.Open(0)
		c.StepLeft()
		c.StepRight()
		c.AutoAdvance(time.Millisecond)
		c.Close()
	})

	assert.False(t, c.IsOpen())
	assert.Equal(t, -1, c.Index())
	_, ok := c.Current()
	assert.False(t, ok)
	assert.True(t, errs.Is(c.JumpTo(0), ErrIndexOutOfRange))
	assert.False(t, c.Advancing())
}

func TestCarousel_Open(t *testing.T) {
	tests := []struct {
		name      string
		at        int
		wantIndex int
	}{
		{name: "in range", at: 2, wantIndex: 2},
		{name: "negative clamps to first", at: -3, wantIndex: 0},
		{name: "past end clamps to last", at: 10, wantIndex: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(photos(4))
			c.Open(tt.at)

			assert.True(t, c.IsOpen())
			assert.Equal(t, tt.wantIndex, c.Index())
			item, ok := c.Current()
			require.True(t, ok)
			assert.Equal(t, photos(4)[tt.wantIndex], item)
		})
	}
}

func TestCarousel_JumpTo(t *testing.T) {
	c := New(photos(3))

	require.NoError(t, c.JumpTo(2))
	assert.Equal(t, 2, c.Index())

	for _, i := range []int{-1, 3} {
		err := c.JumpTo(i)
		assert.True(t, errs.Is(err, ErrIndexOutOfRange), "JumpTo(%d) = %v", i, err)
		assert.Equal(t, 2, c.Index())
	}
}

func TestCarousel_SetItems(t *testing.T) {
	c := New(photos(5))
	c.Open(4)

	c.SetItems(photos(3))
	assert.Equal(t, 0, c.Index(), "out-of-range index resets")
	assert.True(t, c.IsOpen())

	require.NoError(t, c.JumpTo(1))
	c.SetItems(photos(2))
	assert.Equal(t, 1, c.Index())

	c.SetItems(nil)
	assert.False(t, c.IsOpen())
	assert.Equal(t, -1, c.Index())
}

func TestCarousel_AutoAdvance(t *testing.T) {
	c := New(photos(3))
	t.Cleanup(c.Stop)

	c.AutoAdvance(5 * time.Millisecond)
	assert.False(t, c.Advancing(), "closed carousels do not advance")

	c.Open(0)
	require.True(t, c.Advancing())
	require.Eventually(t, func() bool { return c.Index() != 0 }, time.Second, time.Millisecond)

	c.Close()
	assert.False(t, c.Advancing())
	idx := c.Index()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, idx, c.Index(), "closed carousel kept advancing")
}

func TestCarousel_AutoAdvanceNeedsTwoItems(t *testing.T) {
	c := New(photos(1))
	t.Cleanup(c.Stop)

	c.AutoAdvance(time.Millisecond)
	c.Open(0)
	assert.False(t, c.Advancing())

	c.SetItems(photos(2))
	assert.True(t, c.Advancing(), "SetItems reschedules")

	c.AutoAdvance(0)
	assert.False(t, c.Advancing())
}

func TestCarousel_Stop(t *testing.T) {
	c := New(photos(3))
	c.AutoAdvance(time.Millisecond)
	c.Open(0)

	c.Stop()
	assert.False(t, c.IsOpen())
	assert.False(t, c.Advancing())

	idx := c.Index()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, idx, c.Index())

	c.Open(1)
	assert.False(t, c.IsOpen(), "stopped carousels stay closed")
}

func TestCarousel_Changed(t *testing.T) {
	c := New(photos(2))

	c.StepRight()
	c.StepRight()

	select {
	case <-c.Changed():
	default:
		t.Fatal("no change notification")
	}
	select {
	case <-c.Changed():
		t.Fatal("notifications were not coalesced")
	default:
	}
}

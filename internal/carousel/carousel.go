// Package carousel tracks the current position in an ordered list of images
// with wraparound stepping and an optional auto-advance timer.
package carousel

import (
	"sync"
	"time"

	"github.com/alex-user-go/hotelview/internal/errs"
)

// DefaultInterval is the auto-advance period used by Set.
const DefaultInterval = 3 * time.Second

// ErrIndexOutOfRange is returned by JumpTo for an index outside the items.
var ErrIndexOutOfRange = errs.New("carousel index out of range")

// Carousel is safe for concurrent use. Every operation on an empty carousel
// is a no-op.
type Carousel struct {
	mu       sync.Mutex
	items    []string
	index    int
	open     bool
	stopped  bool
	interval time.Duration

	// gen invalidates ticks from a timer that has since been rescheduled.
	gen  uint64
	done chan struct{}
	wg   sync.WaitGroup

	changed chan struct{}
}

// New creates a closed carousel positioned on the first item.
func New(items []string) *Carousel {
	return newCarousel(items, make(chan struct{}, 1))
}

func newCarousel(items []string, changed chan struct{}) *Carousel {
	return &Carousel{
		items:   append([]string(nil), items...),
		changed: changed,
	}
}

// Open shows the carousel at index i, clamped into range. An empty carousel
// stays closed.
func (c *Carousel) Open(i int) {
	c.mu.Lock()
	n := len(c.items)
	if n == 0 || c.stopped {
		c.mu.Unlock()
		return
	}
	c.index = min(max(i, 0), n-1)
	c.open = true
	c.rescheduleLocked()
	c.mu.Unlock()

	c.notify()
}

// Close hides the carousel and cancels auto-advance. The index is kept.
func (c *Carousel) Close() {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return
	}
	c.open = false
	c.rescheduleLocked()
	c.mu.Unlock()

	c.notify()
}

// StepLeft moves to the previous item, wrapping from the first to the last.
func (c *Carousel) StepLeft() {
	c.step(-1)
}

// StepRight moves to the next item, wrapping from the last to the first.
func (c *Carousel) StepRight() {
	c.step(1)
}

func (c *Carousel) step(delta int) {
	c.mu.Lock()
	n := len(c.items)
	if n == 0 {
		c.mu.Unlock()
		return
	}
	c.index = ((c.index+delta)%n + n) % n
	c.mu.Unlock()

	c.notify()
}

// JumpTo moves to index i.
func (c *Carousel) JumpTo(i int) error {
	c.mu.Lock()
	n := len(c.items)
	if i < 0 || i >= n {
		c.mu.Unlock()
		return errs.Wrapf(ErrIndexOutOfRange, "index %d with %d items", i, n)
	}
	c.index = i
	c.mu.Unlock()

	c.notify()
	return nil
}

// AutoAdvance steps right every d while the carousel is open and holds more
// than one item. Calling it again replaces the previous interval; d <= 0
// turns auto-advance off.
func (c *Carousel) AutoAdvance(d time.Duration) {
	c.mu.Lock()
	c.interval = max(d, 0)
	c.rescheduleLocked()
	c.mu.Unlock()
}

// SetItems replaces the item list. The index is kept when still in range and
// reset to the first item otherwise. An emptied carousel closes.
func (c *Carousel) SetItems(items []string) {
	c.mu.Lock()
	c.items = append([]string(nil), items...)
	if c.index >= len(c.items) {
		c.index = 0
	}
	if len(c.items) == 0 {
		c.open = false
	}
	c.rescheduleLocked()
	c.mu.Unlock()

	c.notify()
}

// Stop closes the carousel for good and waits for its timer to exit. Later
// calls to Open are ignored.
func (c *Carousel) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.open = false
	c.rescheduleLocked()
	c.mu.Unlock()

	c.wg.Wait()
}

// Current returns the item at the current index. ok is false when there are
// no items.
func (c *Carousel) Current() (item string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return "", false
	}
	return c.items[c.index], true
}

// Index returns the current index, or -1 when there are no items.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return -1
	}
	return c.index
}

// Len returns the number of items.
func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// IsOpen reports whether the carousel is shown.
func (c *Carousel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Advancing reports whether the auto-advance timer is running.
func (c *Carousel) Advancing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

// Changed fires after the index or visibility changes.
func (c *Carousel) Changed() <-chan struct{} {
	return c.changed
}

func (c *Carousel) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// rescheduleLocked cancels the running timer and starts a new one if the
// carousel should advance. The old goroutine is not waited for here since
// it may be blocked on c.mu.
func (c *Carousel) rescheduleLocked() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	c.gen++

	if c.stopped || !c.open || c.interval <= 0 || len(c.items) < 2 {
		return
	}

	done := make(chan struct{})
	c.done = done
	c.wg.Add(1)
	go c.tick(c.interval, done, c.gen)
}

func (c *Carousel) tick(d time.Duration, done <-chan struct{}, gen uint64) {
	defer c.wg.Done()

	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !c.advance(gen) {
				return
			}
		}
	}
}

func (c *Carousel) advance(gen uint64) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	c.index = (c.index + 1) % len(c.items)
	c.mu.Unlock()

	c.notify()
	return true
}

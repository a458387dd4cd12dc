package carousel

import (
	"slices"
	"sync"
	"time"
)

// Set holds one carousel per key, such as one per room listing. Carousels in
// a set share a change channel but never index or timer state.
type Set struct {
	interval time.Duration

	mu        sync.Mutex
	carousels map[string]*Carousel
	changed   chan struct{}
}

// NewSet creates a Set whose carousels auto-advance every interval once
// opened. A zero interval disables auto-advance.
func NewSet(interval time.Duration) *Set {
	return &Set{
		interval:  interval,
		carousels: make(map[string]*Carousel),
		changed:   make(chan struct{}, 1),
	}
}

// Get returns the carousel for key, creating it on first use. When the
// carousel exists and items differ from what it holds, its items are
// replaced.
func (s *Set) Get(key string, items []string) *Carousel {
	s.mu.Lock()
	c, ok := s.carousels[key]
	if !ok {
		c = newCarousel(items, s.changed)
		s.carousels[key] = c
	}
	s.mu.Unlock()

	if !ok {
		c.AutoAdvance(s.interval)
		return c
	}

	c.mu.Lock()
	same := slices.Equal(c.items, items)
	c.mu.Unlock()
	if !same {
		c.SetItems(items)
	}
	return c
}

// Len returns the number of carousels created so far.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carousels)
}

// Changed fires when any carousel in the set changes.
func (s *Set) Changed() <-chan struct{} {
	return s.changed
}

// StopAll stops every carousel and forgets them.
func (s *Set) StopAll() {
	s.mu.Lock()
	carousels := s.carousels
	s.carousels = make(map[string]*Carousel)
	s.mu.Unlock()

	for _, c := range carousels {
		c.Stop()
	}
}

// Package searchctx holds state shared between views for one session: the
// submitted search form, room offers already fetched per hotel, and recent
// hotel list results.
package searchctx

import (
	"slices"
	"sync"
	"time"

	"github.com/alex-user-go/hotelview/internal/booking"
)

// Context is the in-memory shared query-parameters context. It is safe for
// concurrent use and does not outlive the process.
type Context struct {
	mu     sync.RWMutex
	params *SearchParams
	rooms  map[string][]booking.RoomOffer

	results *Cache
}

// New creates a Context whose hotel list results expire after resultTTL.
func New(resultTTL time.Duration) *Context {
	return &Context{
		rooms:   make(map[string][]booking.RoomOffer),
		results: NewCache(resultTTL),
	}
}

// Close stops the background cleanup of the result cache.
func (c *Context) Close() {
	c.results.Close()
}

// SetParams records the submitted search form.
func (c *Context) SetParams(p SearchParams) {
	c.mu.Lock()
	c.params = &p
	c.mu.Unlock()
}

// Params returns the submitted search form, if any.
func (c *Context) Params() (SearchParams, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.params == nil {
		return SearchParams{}, false
	}
	return *c.params, true
}

// Rooms returns the completed room offers cached for a hotel.
// The returned slice is a copy.
func (c *Context) Rooms(hotelID string) ([]booking.RoomOffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rooms, ok := c.rooms[hotelID]
	if !ok {
		return nil, false
	}
	return slices.Clone(rooms), true
}

// StoreRooms caches completed room offers for a hotel, replacing any earlier
// entry.
func (c *Context) StoreRooms(hotelID string, rooms []booking.RoomOffer) {
	stored := slices.Clone(rooms)
	if stored == nil {
		stored = []booking.RoomOffer{}
	}
	c.mu.Lock()
	c.rooms[hotelID] = stored
	c.mu.Unlock()
}

// ForgetRooms drops the cached offers for a hotel.
func (c *Context) ForgetRooms(hotelID string) {
	c.mu.Lock()
	delete(c.rooms, hotelID)
	c.mu.Unlock()
}

// Results exposes the hotel list result cache.
func (c *Context) Results() *Cache {
	return c.results
}

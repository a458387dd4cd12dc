package fetch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alex-user-go/hotelview/internal/booking"
)

// DetailFetcher loads the detail record of one hotel at a time. Each distinct
// hotel id produces exactly one request; switching ids supersedes the
// previous request, whose result is then discarded.
type DetailFetcher struct {
	api    booking.HotelGetter
	logger *slog.Logger

	mu      sync.Mutex
	state   State[*booking.Hotel]
	seq     uint64
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
	changed signal
}

// NewDetailFetcher creates a new DetailFetcher.
func NewDetailFetcher(api booking.HotelGetter, logger *slog.Logger) *DetailFetcher {
	return &DetailFetcher{
		api:     api,
		logger:  logger,
		changed: newSignal(),
	}
}

// Load switches the fetcher to id. Loading the id already shown, or already
// loading, is a no-op.
func (f *DetailFetcher) Load(ctx context.Context, id string) {
	f.mu.Lock()
	if f.closed || (f.state.Status != StatusIdle && f.state.Key == id) {
		f.mu.Unlock()
		return
	}
	f.startLocked(ctx, id)
	f.mu.Unlock()

	f.changed.notify()
}

// Reload requests the current id again, typically after an error.
func (f *DetailFetcher) Reload(ctx context.Context) {
	f.mu.Lock()
	if f.closed || f.state.Status == StatusIdle {
		f.mu.Unlock()
		return
	}
	f.startLocked(ctx, f.state.Key)
	f.mu.Unlock()

	f.changed.notify()
}

// State returns the current snapshot.
func (f *DetailFetcher) State() State[*booking.Hotel] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Changed fires after every state transition.
func (f *DetailFetcher) Changed() <-chan struct{} {
	return f.changed
}

// Await blocks until the current load is Ready or Error, or ctx ends. Like
// PriceFetcher.Await it consumes Changed.
func (f *DetailFetcher) Await(ctx context.Context) (State[*booking.Hotel], error) {
	for {
		s := f.State()
		if s.Status == StatusIdle || s.Status.Terminal() {
			return s, nil
		}
		select {
		case <-f.Changed():
		case <-ctx.Done():
			return s, context.Cause(ctx)
		}
	}
}

// Close cancels the in-flight request and waits for it to return.
func (f *DetailFetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()

	f.wg.Wait()
}

// startLocked must be called with f.mu held.
func (f *DetailFetcher) startLocked(ctx context.Context, id string) {
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq

	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.state = State[*booking.Hotel]{Status: StatusLoading, Key: id}

	f.wg.Add(1)
	go f.fetch(reqCtx, id, seq)
}

func (f *DetailFetcher) fetch(ctx context.Context, id string, seq uint64) {
	defer f.wg.Done()

	hotel, err := f.api.GetHotel(ctx, id)

	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		f.logger.Debug("dropping superseded hotel detail", "hotel_id", id)
		return
	}
	f.cancel()
	f.cancel = nil
	if err != nil {
		f.state = State[*booking.Hotel]{Status: StatusError, Key: id, Err: err}
	} else {
		f.state = State[*booking.Hotel]{Status: StatusReady, Key: id, Value: hotel}
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Error("failed to fetch hotel details", "hotel_id", id, "error", err)
	}
	f.changed.notify()
}

package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/searchctx"
)

// PollConfig bounds price polling.
type PollConfig struct {
	// Delay between a pending answer (or a failed request) and the next request.
	Delay time.Duration
	// MaxAttempts caps the number of requests; 0 polls until completion.
	MaxAttempts int
	// MaxFailures is the number of consecutive transport failures that ends
	// polling with an error.
	MaxFailures int
	// RequestTimeout bounds each request; 0 leaves it to the HTTP client.
	RequestTimeout time.Duration
}

// DefaultPollConfig polls every five seconds for up to five minutes.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Delay:          5 * time.Second,
		MaxAttempts:    60,
		MaxFailures:    3,
		RequestTimeout: 10 * time.Second,
	}
}

// PriceFetcher polls room prices for one hotel until the API reports them
// complete. Completed offers are published to the shared search context, and
// a later Start for the same hotel is answered from there.
type PriceFetcher struct {
	api     booking.PriceGetter
	shared  *searchctx.Context
	cfg     PollConfig
	metrics *obs.Metrics
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	state   State[[]booking.RoomOffer]
	run     uint64
	stop    context.CancelFunc
	done    chan struct{} // closed when the latest polling goroutine returns
	wg      sync.WaitGroup
	changed signal
}

// NewPriceFetcher creates a new PriceFetcher.
func NewPriceFetcher(
	api booking.PriceGetter,
	shared *searchctx.Context,
	cfg PollConfig,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *PriceFetcher {
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}
	return &PriceFetcher{
		api:     api,
		shared:  shared,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		sleep:   sleepCtx,
		changed: newSignal(),
	}
}

// Start begins polling for q, stopping any earlier run. When the shared
// context already holds offers for the hotel the fetcher is Ready on return
// and no request is made. A request the earlier run still has in flight is
// awaited before the new run sends its first one.
func (p *PriceFetcher) Start(ctx context.Context, q booking.PriceQuery) error {
	if err := q.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.stopLocked()
	p.run++
	run := p.run

	if rooms, ok := p.shared.Rooms(q.HotelID); ok {
		p.state = State[[]booking.RoomOffer]{Status: StatusReady, Key: q.HotelID, Value: rooms}
		p.mu.Unlock()

		p.metrics.IncCacheHits()
		p.logger.Debug("room prices served from search context", "hotel_id", q.HotelID)
		p.changed.notify()
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.stop = cancel
	p.state = State[[]booking.RoomOffer]{Status: StatusLoading, Key: q.HotelID}
	prev, done := p.done, make(chan struct{})
	p.done = done
	p.wg.Add(1)
	p.mu.Unlock()

	p.changed.notify()
	go p.poll(runCtx, q, run, prev, done)
	return nil
}

// Refresh drops any offers the shared context holds for q's hotel and starts
// polling again.
func (p *PriceFetcher) Refresh(ctx context.Context, q booking.PriceQuery) error {
	if err := q.Validate(); err != nil {
		return err
	}
	p.shared.ForgetRooms(q.HotelID)
	p.logger.Debug("room prices refreshed", "hotel_id", q.HotelID)
	return p.Start(ctx, q)
}

// Stop cancels any scheduled retry. A request already in flight is left to
// finish, but nothing is requested after it.
func (p *PriceFetcher) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.run++
	p.mu.Unlock()
}

// Wait blocks until the polling goroutine of every run has returned.
func (p *PriceFetcher) Wait() {
	p.wg.Wait()
}

// Await blocks until the current run reaches a terminal state or ctx ends.
// It consumes Changed, so it must not be combined with another reader of it.
func (p *PriceFetcher) Await(ctx context.Context) (State[[]booking.RoomOffer], error) {
	for {
		s := p.State()
		if s.Status.Terminal() {
			return s, nil
		}
		select {
		case <-p.Changed():
		case <-ctx.Done():
			return s, context.Cause(ctx)
		}
	}
}

// State returns the current snapshot.
func (p *PriceFetcher) State() State[[]booking.RoomOffer] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Changed fires after every state transition.
func (p *PriceFetcher) Changed() <-chan struct{} {
	return p.changed
}

func (p *PriceFetcher) stopLocked() {
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
}

func (p *PriceFetcher) poll(ctx context.Context, q booking.PriceQuery, run uint64, prev <-chan struct{}, done chan struct{}) {
	defer p.wg.Done()
	defer close(done)

	logger := p.logger.With("hotel_id", q.HotelID, "query", q.Key())

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return
		}
		// The earlier run may have stored a complete answer on its way out.
		if rooms, ok := p.shared.Rooms(q.HotelID); ok {
			p.metrics.IncCacheHits()
			logger.Debug("room prices served from search context")
			p.finish(run, State[[]booking.RoomOffer]{Status: StatusReady, Key: q.HotelID, Value: rooms})
			return
		}
	}

	failures := 0

	for attempt := 1; p.cfg.MaxAttempts == 0 || attempt <= p.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return
		}

		p.metrics.IncPollAttempts()
		logger.Debug("requesting room prices", "attempt", attempt)
		result, err := p.request(ctx, q)

		if ctx.Err() != nil {
			// Stopped while the request was in flight. A complete answer is
			// still worth keeping for sibling views.
			if err == nil && !result.Pending() {
				p.shared.StoreRooms(q.HotelID, result.Rooms)
			}
			return
		}

		switch {
		case err != nil && errs.Is(err, booking.ErrNotFound):
			logger.Error("no prices for hotel", "error", err)
			p.finish(run, State[[]booking.RoomOffer]{Status: StatusError, Key: q.HotelID, Err: err, Attempt: attempt})
			return

		case err != nil:
			failures++
			logger.Warn("room price request failed", "attempt", attempt, "failures", failures, "error", err)
			if failures >= p.cfg.MaxFailures {
				logger.Error("giving up on room prices", "attempt", attempt, "error", err)
				p.finish(run, State[[]booking.RoomOffer]{
					Status:  StatusError,
					Key:     q.HotelID,
					Err:     errs.Mark(err, booking.ErrTransport),
					Attempt: attempt,
				})
				return
			}
			p.update(run, State[[]booking.RoomOffer]{Status: StatusPending, Key: q.HotelID, Err: err, Attempt: attempt})

		case !result.Pending():
			p.shared.StoreRooms(q.HotelID, result.Rooms)
			logger.Debug("room prices complete", "attempt", attempt, "rooms", len(result.Rooms))
			p.finish(run, State[[]booking.RoomOffer]{Status: StatusReady, Key: q.HotelID, Value: result.Rooms, Attempt: attempt})
			return

		default:
			failures = 0
			p.update(run, State[[]booking.RoomOffer]{Status: StatusPending, Key: q.HotelID, Attempt: attempt})
		}

		if attempt == p.cfg.MaxAttempts {
			break
		}
		if err := p.sleep(ctx, p.cfg.Delay); err != nil {
			return
		}
	}

	logger.Error("room prices did not complete", "attempts", p.cfg.MaxAttempts)
	p.finish(run, State[[]booking.RoomOffer]{
		Status:  StatusTimedOut,
		Key:     q.HotelID,
		Err:     ErrTimedOut,
		Attempt: p.cfg.MaxAttempts,
	})
}

// request runs on a context detached from Stop so that teardown never aborts
// a request mid-flight.
func (p *PriceFetcher) request(ctx context.Context, q booking.PriceQuery) (*booking.PriceResult, error) {
	reqCtx := context.WithoutCancel(ctx)
	if p.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, p.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := p.api.GetPrices(reqCtx, q)
	if err == nil && result == nil {
		err = errs.Mark(errs.New("empty price response"), booking.ErrTransport)
	}
	return result, err
}

// update publishes s if run is still current.
func (p *PriceFetcher) update(run uint64, s State[[]booking.RoomOffer]) {
	p.mu.Lock()
	if run != p.run {
		p.mu.Unlock()
		return
	}
	p.state = s
	p.mu.Unlock()

	p.changed.notify()
}

// finish publishes a terminal state and releases the run's cancel func.
func (p *PriceFetcher) finish(run uint64, s State[[]booking.RoomOffer]) {
	p.mu.Lock()
	if run != p.run {
		p.mu.Unlock()
		return
	}
	p.state = s
	p.stopLocked()
	p.mu.Unlock()

	p.changed.notify()
}

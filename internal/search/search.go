// Package search runs hotel list searches and enriches the results with
// room prices.
package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/fetch"
	"github.com/alex-user-go/hotelview/internal/obs"
	"github.com/alex-user-go/hotelview/internal/searchctx"
)

const (
	// DefaultLimit is the number of hotels kept from a search.
	DefaultLimit = 40
	// DefaultConcurrency bounds concurrent price polls in WithPrices.
	DefaultConcurrency = 4
)

// ErrNoPrices is reported for a hotel whose price poll completed without
// any room offer.
var ErrNoPrices = errs.New("no rooms available")

// API is the subset of the booking API a Searcher needs.
type API interface {
	booking.HotelSearcher
	booking.PriceGetter
}

// Result is a normalized hotel list.
type Result struct {
	Hotels []booking.Hotel
	// Total counts valid hotels before the limit was applied.
	Total int
	// Dropped counts entries discarded as invalid or duplicate.
	Dropped int
	Cached  bool
}

// Listing is a hotel with its cheapest room offer, if prices were found.
type Listing struct {
	booking.Hotel
	Cheapest *booking.RoomOffer
	Err      error
}

// Searcher queries the booking API for hotel lists. Submitted params are
// recorded in the shared search context.
type Searcher struct {
	api         API
	shared      *searchctx.Context
	poll        fetch.PollConfig
	limit       int
	concurrency int
	metrics     *obs.Metrics
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLimit sets the number of hotels kept from a search.
func WithLimit(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithConcurrency sets how many hotels WithPrices polls at once.
func WithConcurrency(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSearcher creates a new Searcher.
func NewSearcher(
	api API,
	shared *searchctx.Context,
	poll fetch.PollConfig,
	metrics *obs.Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Searcher {
	s := &Searcher{
		api:         api,
		shared:      shared,
		poll:        poll,
		limit:       DefaultLimit,
		concurrency: DefaultConcurrency,
		metrics:     metrics,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search validates params, records them in the shared context and returns
// the normalized hotel list. Identical searches within the cache TTL are
// answered without a request.
func (s *Searcher) Search(ctx context.Context, params searchctx.SearchParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.shared.SetParams(params)

	raw, hit, err := s.shared.Results().GetOrFetch(ctx, params.Key(), func() ([]booking.Hotel, error) {
		// Shared by every caller waiting on this key, so it must not end
		// with the first caller's context.
		fetchCtx := context.WithoutCancel(ctx)
		if s.poll.RequestTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, s.poll.RequestTimeout)
			defer cancel()
		}
		return s.api.SearchHotels(fetchCtx, params.SearchQuery())
	})
	if err != nil {
		s.logger.Error("hotel search failed", "destination_id", params.DestinationID, "error", err)
		return nil, err
	}
	if hit {
		s.metrics.IncCacheHits()
	}

	hotels := normalize(raw)
	result := &Result{
		Hotels:  hotels,
		Total:   len(hotels),
		Dropped: len(raw) - len(hotels),
		Cached:  hit,
	}
	if len(result.Hotels) > s.limit {
		result.Hotels = result.Hotels[:s.limit]
	}

	s.logger.Debug("hotel search complete",
		"destination_id", params.DestinationID,
		"total", result.Total,
		"dropped", result.Dropped,
		"cached", hit,
	)
	return result, nil
}

// Refresh drops any cached list for params and searches again.
func (s *Searcher) Refresh(ctx context.Context, params searchctx.SearchParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s.shared.Results().Invalidate(params.Key())
	s.logger.Debug("hotel search cache invalidated", "destination_id", params.DestinationID)
	return s.Search(ctx, params)
}

// WithPrices polls room prices for every hotel, at most s.concurrency at a
// time, and attaches the cheapest offer. A hotel whose prices fail keeps a
// nil Cheapest and carries the error. Listings keep the order of hotels.
func (s *Searcher) WithPrices(ctx context.Context, params searchctx.SearchParams, hotels []booking.Hotel) ([]Listing, error) {
	listings := make([]Listing, len(hotels))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for i, hotel := range hotels {
		listings[i].Hotel = hotel
		if ctx.Err() != nil {
			listings[i].Err = context.Cause(ctx)
			continue
		}

		g.Go(func() error {
			rooms, err := s.rooms(ctx, params.PriceQuery(hotel.ID))
			if err != nil {
				s.logger.Warn("hotel left unpriced", "hotel_id", hotel.ID, "error", err)
				listings[i].Err = err
				return nil
			}
			listings[i].Cheapest = cheapest(rooms)
			return nil
		})
	}
	_ = g.Wait() // workers never fail the group

	return listings, context.Cause(ctx)
}

func (s *Searcher) rooms(ctx context.Context, q booking.PriceQuery) ([]booking.RoomOffer, error) {
	f := fetch.NewPriceFetcher(s.api, s.shared, s.poll, s.metrics, s.logger)
	defer f.Wait()
	defer f.Stop()

	if err := f.Start(ctx, q); err != nil {
		return nil, err
	}
	state, err := f.Await(ctx)
	if err != nil {
		return nil, err
	}
	if state.Status != fetch.StatusReady {
		return nil, state.Err
	}
	if len(state.Value) == 0 {
		return nil, ErrNoPrices
	}
	return state.Value, nil
}

// normalize drops invalid hotels, keeps the lowest price per id and sorts
// by price.
func normalize(raw []booking.Hotel) []booking.Hotel {
	byID := make(map[string]booking.Hotel, len(raw))
	for _, h := range raw {
		h.ID = strings.TrimSpace(h.ID)
		h.Name = strings.TrimSpace(h.Name)
		if h.ID == "" || h.Name == "" || h.Price <= 0 {
			continue
		}
		if existing, ok := byID[h.ID]; ok && existing.Price <= h.Price {
			continue
		}
		byID[h.ID] = h
	}

	hotels := make([]booking.Hotel, 0, len(byID))
	for _, h := range byID {
		hotels = append(hotels, h)
	}
	slices.SortFunc(hotels, func(a, b booking.Hotel) int {
		return cmp.Or(cmp.Compare(a.Price, b.Price), strings.Compare(a.ID, b.ID))
	})
	return hotels
}

func cheapest(rooms []booking.RoomOffer) *booking.RoomOffer {
	if len(rooms) == 0 {
		return nil
	}
	best := slices.MinFunc(rooms, func(a, b booking.RoomOffer) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return &best
}

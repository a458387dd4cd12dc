// Package tui renders the interactive hotel page: hotel details, a photo
// carousel and room prices that arrive by polling.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/carousel"
	"github.com/alex-user-go/hotelview/internal/fetch"
)

// Change notifications, one per source. Each is re-armed after it is
// handled.
type (
	detailChangedMsg struct{}
	pricesChangedMsg struct{}
	photosChangedMsg struct{}
	roomsChangedMsg  struct{}
)

// Options configures a Model.
type Options struct {
	HotelID string
	// Query is nil when no stay dates were given; prices are then not fetched.
	Query *booking.PriceQuery
	// Interval is the auto-advance period of the photo carousels.
	Interval time.Duration
}

// Model is the Bubble Tea model of the hotel page. It owns the fetchers and
// carousels passed to it and tears them down on quit.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   Options

	detail *fetch.DetailFetcher
	prices *fetch.PriceFetcher
	photos *carousel.Carousel
	rooms  *carousel.Set

	spinner      spinner.Model
	help         help.Model
	keys         keyMap
	width        int
	selected     int
	auto         bool
	allAmenities bool
	startErr     error
	quitting     bool
}

// New creates the hotel page model.
func New(ctx context.Context, detail *fetch.DetailFetcher, prices *fetch.PriceFetcher, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SubtleStyle

	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		opts:    opts,
		detail:  detail,
		prices:  prices,
		photos:  carousel.New(nil),
		rooms:   carousel.NewSet(opts.Interval),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   80,
	}
}

// Init starts loading the hotel and, when dates are known, polling prices.
func (m *Model) Init() tea.Cmd {
	m.detail.Load(m.ctx, m.opts.HotelID)
	m.startPrices()

	return tea.Batch(
		m.spinner.Tick,
		m.wait(m.detail.Changed(), detailChangedMsg{}),
		m.wait(m.prices.Changed(), pricesChangedMsg{}),
		m.wait(m.photos.Changed(), photosChangedMsg{}),
		m.wait(m.rooms.Changed(), roomsChangedMsg{}),
	)
}

// Update handles messages (Bubble Tea interface).
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case detailChangedMsg:
		m.syncDetail()
		return m, m.wait(m.detail.Changed(), detailChangedMsg{})

	case pricesChangedMsg:
		m.syncRooms()
		return m, m.wait(m.prices.Changed(), pricesChangedMsg{})

	case photosChangedMsg:
		return m, m.wait(m.photos.Changed(), photosChangedMsg{})

	case roomsChangedMsg:
		return m, m.wait(m.rooms.Changed(), roomsChangedMsg{})
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		m.photos.Open(m.photos.Index())

	case key.Matches(msg, m.keys.Photo):
		// Photos past the end are ignored.
		if n := int(msg.Runes[0] - '1'); m.photos.JumpTo(n) == nil {
			m.photos.Open(n)
		}

	case key.Matches(msg, m.keys.Close):
		m.photos.Close()

	case key.Matches(msg, m.keys.Left):
		m.photos.StepLeft()

	case key.Matches(msg, m.keys.Right):
		m.photos.StepRight()

	case key.Matches(msg, m.keys.Auto):
		m.auto = !m.auto
		if m.auto {
			m.photos.AutoAdvance(m.opts.Interval)
		} else {
			m.photos.AutoAdvance(0)
		}

	case key.Matches(msg, m.keys.Up):
		m.selected = max(m.selected-1, 0)

	case key.Matches(msg, m.keys.Down):
		if n := len(m.prices.State().Value); n > 0 {
			m.selected = min(m.selected+1, n-1)
		}

	case key.Matches(msg, m.keys.RoomPrev):
		if c := m.selectedRoom(); c != nil {
			c.StepLeft()
		}

	case key.Matches(msg, m.keys.RoomNext):
		if c := m.selectedRoom(); c != nil {
			c.StepRight()
		}

	case key.Matches(msg, m.keys.Retry):
		m.retry()

	case key.Matches(msg, m.keys.Refresh):
		m.refreshPrices()

	case key.Matches(msg, m.keys.More):
		m.allAmenities = !m.allAmenities
	}
	return m, nil
}

// Teardown stops every fetcher and carousel. In-flight price requests are
// left to finish; call PriceFetcher.Wait to wait for them.
func (m *Model) Teardown() {
	if m.quitting {
		return
	}
	m.quitting = true
	m.cancel()
	m.detail.Close()
	m.prices.Stop()
	m.photos.Stop()
	m.rooms.StopAll()
}

func (m *Model) startPrices() {
	if m.opts.Query == nil {
		return
	}
	m.startErr = m.prices.Start(m.ctx, *m.opts.Query)
}

// refreshPrices polls again even when offers for the hotel are cached.
func (m *Model) refreshPrices() {
	if m.opts.Query == nil {
		return
	}
	m.startErr = m.prices.Refresh(m.ctx, *m.opts.Query)
}

func (m *Model) retry() {
	if m.detail.State().Status == fetch.StatusError {
		m.detail.Reload(m.ctx)
	}
	switch m.prices.State().Status {
	case fetch.StatusError, fetch.StatusTimedOut:
		m.startPrices()
	}
}

func (m *Model) syncDetail() {
	st := m.detail.State()
	if st.Status == fetch.StatusReady && st.Value != nil {
		m.photos.SetItems(st.Value.Photos())
	}
}

func (m *Model) syncRooms() {
	st := m.prices.State()
	if st.Status != fetch.StatusReady {
		return
	}
	for i, room := range st.Value {
		c := m.rooms.Get(roomKey(i, room), room.Images)
		if !c.IsOpen() {
			c.Open(0)
		}
	}
	m.selected = min(m.selected, max(len(st.Value)-1, 0))
}

func (m *Model) selectedRoom() *carousel.Carousel {
	rooms := m.prices.State().Value
	if m.selected >= len(rooms) {
		return nil
	}
	room := rooms[m.selected]
	return m.rooms.Get(roomKey(m.selected, room), room.Images)
}

// roomKey names the carousel of the i-th offer. Offer keys alone may be
// empty or repeated.
func roomKey(i int, room booking.RoomOffer) string {
	return strconv.Itoa(i) + ":" + room.Key
}

// wait delivers msg once ch fires, or nothing after teardown.
func (m *Model) wait(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

package app

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/search"
	"github.com/alex-user-go/hotelview/internal/searchctx"
)

// stayFlags are the search form fields shared by search and hotel.
type stayFlags struct {
	destination string
	checkIn     string
	checkOut    string
	adults      int
	children    int
	rooms       int
}

func (f *stayFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.destination, "destination", "d", "", "destination term or id, e.g. \"Marina Bay, Singapore\" or WD0M")
	fs.StringVar(&f.checkIn, "checkin", "", "check-in date (YYYY-MM-DD)")
	fs.StringVar(&f.checkOut, "checkout", "", "check-out date (YYYY-MM-DD)")
	fs.IntVar(&f.adults, "adults", searchctx.DefaultAdults, "number of adults")
	fs.IntVar(&f.children, "children", searchctx.DefaultChildren, "number of children")
	fs.IntVar(&f.rooms, "rooms", searchctx.DefaultRooms, "number of rooms")
}

// dated reports whether any stay date was given.
func (f *stayFlags) dated() bool {
	return f.checkIn != "" || f.checkOut != ""
}

// params resolves the destination and validates the form.
func (f *stayFlags) params() (searchctx.SearchParams, search.Destination, error) {
	dests, err := search.DefaultDestinations()
	if err != nil {
		return searchctx.SearchParams{}, search.Destination{}, err
	}
	dest, err := dests.Lookup(f.destination)
	if err != nil {
		return searchctx.SearchParams{}, search.Destination{}, err
	}

	checkIn, err := parseDate("checkin", f.checkIn)
	if err != nil {
		return searchctx.SearchParams{}, dest, err
	}
	checkOut, err := parseDate("checkout", f.checkOut)
	if err != nil {
		return searchctx.SearchParams{}, dest, err
	}

	p := searchctx.NewSearchParams(dest.UID, checkIn, checkOut)
	p.Adults = f.adults
	p.Children = f.children
	p.Rooms = f.rooms
	if err := p.Validate(); err != nil {
		return searchctx.SearchParams{}, dest, err
	}
	return p, dest, nil
}

// parseDate accepts an empty value, which Validate reports as incomplete.
func parseDate(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(booking.DateLayout, value)
	if err != nil {
		return time.Time{}, errs.Mark(errs.Newf("--%s must look like %s, got %q", name, booking.DateLayout, value), searchctx.ErrInvalidForm)
	}
	return t, nil
}

package searchctx

import (
	"fmt"
	"strings"
	"time"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
)

// Defaults of the search form.
const (
	DefaultAdults   = 2
	DefaultChildren = 0
	DefaultRooms    = 1
)

var (
	// ErrIncompleteForm is returned when a required search field is empty.
	ErrIncompleteForm = errs.New("please fill in all required fields")
	// ErrInvalidForm is returned when search fields are present but inconsistent.
	ErrInvalidForm = errs.New("invalid search")
)

// SearchParams are the values submitted by the search form.
type SearchParams struct {
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	Rooms         int
}

// NewSearchParams returns params with the form defaults applied.
func NewSearchParams(destinationID string, checkIn, checkOut time.Time) SearchParams {
	return SearchParams{
		DestinationID: destinationID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Adults:        DefaultAdults,
		Children:      DefaultChildren,
		Rooms:         DefaultRooms,
	}
}

// Validate checks the form the same way the search button does.
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.DestinationID) == "" || p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		return ErrIncompleteForm
	}
	if !p.CheckOut.After(p.CheckIn) {
		return errs.Mark(errs.New("check-out must be after check-in"), ErrInvalidForm)
	}
	if p.Adults < 1 {
		return errs.Mark(errs.New("at least one adult is required"), ErrInvalidForm)
	}
	if p.Children < 0 {
		return errs.Mark(errs.New("children cannot be negative"), ErrInvalidForm)
	}
	if p.Rooms < 1 || p.Rooms > p.Guests() {
		return errs.Mark(errs.Newf("rooms must be between 1 and %d", p.Guests()), ErrInvalidForm)
	}
	return nil
}

// Guests is the total number of guests.
func (p SearchParams) Guests() int {
	return p.Adults + p.Children
}

// Nights is the length of the stay.
func (p SearchParams) Nights() int {
	return int(p.CheckOut.Sub(p.CheckIn).Hours() / 24)
}

// PriceQuery derives the price query for one hotel. Only adults are sent
// as guests.
func (p SearchParams) PriceQuery(hotelID string) booking.PriceQuery {
	return booking.PriceQuery{
		DestinationID: p.DestinationID,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Guests:        p.Adults,
		Rooms:         p.Rooms,
		HotelID:       hotelID,
	}
}

// SearchQuery derives the hotel list query.
func (p SearchParams) SearchQuery() booking.SearchQuery {
	return booking.SearchQuery{
		DestinationID: p.DestinationID,
		CheckIn:       p.CheckIn,
		CheckOut:      p.CheckOut,
		Adults:        p.Adults,
		Children:      p.Children,
		Rooms:         p.Rooms,
	}
}

// Key generates a cache key from the search parameters.
func (p SearchParams) Key() string {
	return fmt.Sprintf("%s:%s:%s:%d:%d:%d",
		p.DestinationID,
		p.CheckIn.Format(booking.DateLayout),
		p.CheckOut.Format(booking.DateLayout),
		p.Adults, p.Children, p.Rooms)
}

package searchctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alex-user-go/hotelview/internal/errs"
)

func day(d int) time.Time {
	return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *SearchParams)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(p *SearchParams) {}},
		{name: "missing destination", mutate: func(p *SearchParams) { p.DestinationID = "" }, wantErr: ErrIncompleteForm},
		{name: "missing check-in", mutate: func(p *SearchParams) { p.CheckIn = time.Time{} }, wantErr: ErrIncompleteForm},
		{name: "missing check-out", mutate: func(p *SearchParams) { p.CheckOut = time.Time{} }, wantErr: ErrIncompleteForm},
		{name: "same day stay", mutate: func(p *SearchParams) { p.CheckOut = p.CheckIn }, wantErr: ErrInvalidForm},
		{name: "no adults", mutate: func(p *SearchParams) { p.Adults = 0 }, wantErr: ErrInvalidForm},
		{name: "negative children", mutate: func(p *SearchParams) { p.Children = -1 }, wantErr: ErrInvalidForm},
		{name: "zero rooms", mutate: func(p *SearchParams) { p.Rooms = 0 }, wantErr: ErrInvalidForm},
		{name: "more rooms than guests", mutate: func(p *SearchParams) { p.Rooms = 3 }, wantErr: ErrInvalidForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSearchParams("WD0M", day(1), day(3))
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSearchParams_Derived(t *testing.T) {
	p := NewSearchParams("WD0M", day(1), day(4))
	p.Children = 2
	p.Rooms = 2

	assert.Equal(t, 4, p.Guests())
	assert.Equal(t, 3, p.Nights())
	assert.Equal(t, "WD0M:2025-12-01:2025-12-04:2:2:2", p.Key())

	q := p.PriceQuery("diH7")
	assert.Equal(t, "diH7", q.HotelID)
	assert.Equal(t, 2, q.Guests, "children are not priced")
	assert.Equal(t, 2, q.Rooms)
	assert.NoError(t, q.Validate())

	sq := p.SearchQuery()
	assert.Equal(t, "WD0M", sq.DestinationID)
	assert.Equal(t, 2, sq.Adults)
	assert.Equal(t, 2, sq.Children)
	assert.Equal(t, 2, sq.Rooms)
}

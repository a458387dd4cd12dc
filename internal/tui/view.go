package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/carousel"
	"github.com/alex-user-go/hotelview/internal/fetch"
)

// View renders the page (Bubble Tea interface).
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	m.renderHeader(&b)
	m.renderDetails(&b)
	m.renderPhotos(&b)
	m.renderRooms(&b)
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderHeader(b *strings.Builder) {
	st := m.detail.State()
	switch st.Status {
	case fetch.StatusReady:
		h := st.Value
		b.WriteString(TitleStyle.Render(h.Name))
		if h.Rating > 0 {
			b.WriteString(" " + SubtleStyle.Render(fmt.Sprintf("%.1f★ %s", h.Rating, booking.RatingText(h.Rating))))
		}
		b.WriteString("\n")
		if h.Address != "" {
			b.WriteString(SubtleStyle.Render(h.Address) + "\n")
		}
		if h.Distance > 0 {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf("Distance: %.2fm", h.Distance)) + "\n")
		}
		if h.Price > 0 {
			b.WriteString("from " + PriceStyle.Render(FormatPrice(h.Price)) + "\n")
		}
		if city := h.OriginalMetadata.City; city != "" {
			b.WriteString("\n" + SelectedStyle.Render("Stay in the heart of "+city) + "\n")
		}
		if h.Description != "" {
			b.WriteString("\n" + lipgloss.NewStyle().Width(m.width).Render(h.Description) + "\n")
		}

	case fetch.StatusError:
		b.WriteString(ErrorStyle.Render("could not load hotel: "+st.Err.Error()) + "\n")
		b.WriteString(SubtleStyle.Render("press r to retry") + "\n")

	default:
		fmt.Fprintf(b, "%s loading hotel %s\n", m.spinner.View(), m.opts.HotelID)
	}
}

func (m *Model) renderDetails(b *strings.Builder) {
	st := m.detail.State()
	if st.Status != fetch.StatusReady || st.Value == nil {
		return
	}
	h := st.Value

	if line := TrustYouLine(h.TrustYou.Score); line != "" {
		b.WriteString(SectionStyle.Render("TrustYou Scores") + "\n")
		b.WriteString(line + "\n")
	}

	if cats := h.SortedCategories(); len(cats) > 0 {
		b.WriteString(SectionStyle.Render("Categories") + "\n")
		parts := make([]string, len(cats))
		for i, c := range cats {
			parts[i] = c.Name + ": " + FormatScore(c.Score)
		}
		b.WriteString(strings.Join(parts, " · ") + "\n")
	}

	if len(h.AmenitiesRatings) > 0 {
		b.WriteString(SectionStyle.Render("Amenities Ratings") + "\n")
		parts := make([]string, len(h.AmenitiesRatings))
		for i, r := range h.AmenitiesRatings {
			parts[i] = r.Name + " " + FormatScore(r.Score)
		}
		b.WriteString(strings.Join(parts, " · ") + "\n")
	}

	if names := h.AmenityNames(); len(names) > 0 {
		b.WriteString(SectionStyle.Render("Amenities") + "\n")
		switch {
		case m.allAmenities:
			b.WriteString(strings.Join(names, ", ") + "\n")
			if len(names) > HotelAmenities {
				b.WriteString(SubtleStyle.Render("m to show less") + "\n")
			}
		default:
			b.WriteString(Summarize(names, HotelAmenities) + "\n")
			if len(names) > HotelAmenities {
				b.WriteString(SubtleStyle.Render("m to show more") + "\n")
			}
		}
	}

	b.WriteString("\n" + TitleStyle.Render("Perfect for a "+h.StayType()+" stay!") + "\n")
}

func (m *Model) renderPhotos(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Photos") + "\n")
	if m.detail.State().Status != fetch.StatusReady {
		return
	}

	current, ok := m.photos.Current()
	if !ok {
		b.WriteString(SubtleStyle.Render("no photos") + "\n")
		return
	}

	position := fmt.Sprintf("%d/%d", m.photos.Index()+1, m.photos.Len())
	if !m.photos.IsOpen() {
		b.WriteString(SubtleStyle.Render("photo "+position+" · enter to open") + "\n")
		return
	}

	line := fmt.Sprintf("◀ %s ▶  %s", position, current)
	if m.auto {
		line += "  " + SubtleStyle.Render("(auto)")
	}
	b.WriteString(CarouselStyle.Render(line) + "\n")
}

func (m *Model) renderRooms(b *strings.Builder) {
	b.WriteString(SectionStyle.Render("Rooms") + "\n")

	if m.opts.Query == nil {
		b.WriteString(SubtleStyle.Render("give --checkin and --checkout to see room prices") + "\n")
		return
	}
	if m.startErr != nil {
		b.WriteString(ErrorStyle.Render(m.startErr.Error()) + "\n")
		return
	}

	st := m.prices.State()
	switch st.Status {
	case fetch.StatusIdle, fetch.StatusLoading:
		fmt.Fprintf(b, "%s fetching prices\n", m.spinner.View())

	case fetch.StatusPending:
		fmt.Fprintf(b, "%s fetching prices (attempt %d)\n", m.spinner.View(), st.Attempt)

	case fetch.StatusError:
		b.WriteString(ErrorStyle.Render("prices unavailable: "+st.Err.Error()) + "\n")
		b.WriteString(SubtleStyle.Render("press r to retry") + "\n")

	case fetch.StatusTimedOut:
		b.WriteString(WarnStyle.Render(fmt.Sprintf("prices did not arrive after %d attempts", st.Attempt)) + "\n")
		b.WriteString(SubtleStyle.Render("press r to retry") + "\n")

	case fetch.StatusReady:
		if len(st.Value) == 0 {
			b.WriteString(SubtleStyle.Render("no rooms available") + "\n")
			return
		}
		for i, room := range st.Value {
			m.renderRoom(b, i, room, m.rooms.Get(roomKey(i, room), room.Images))
		}
	}
}

func (m *Model) renderRoom(b *strings.Builder, i int, room booking.RoomOffer, c *carousel.Carousel) {
	cursor := "  "
	name := room.Description
	if i == m.selected {
		cursor = SelectedStyle.Render("› ")
		name = SelectedStyle.Render(name)
	}
	fmt.Fprintf(b, "%s%s  %s\n", cursor, name, PriceStyle.Render(FormatPrice(room.Price)))

	if len(room.Amenities) > 0 {
		b.WriteString("    " + SubtleStyle.Render(Summarize(room.Amenities, RoomAmenities)) + "\n")
	}
	if img, ok := c.Current(); ok {
		fmt.Fprintf(b, "    %s %s\n", SubtleStyle.Render(fmt.Sprintf("[%d/%d]", c.Index()+1, c.Len())), img)
	} else {
		b.WriteString("    " + SubtleStyle.Render("no photos") + "\n")
	}
}

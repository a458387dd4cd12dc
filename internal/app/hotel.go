package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/fetch"
	"github.com/alex-user-go/hotelview/internal/tui"
)

func newHotelCmd(e *env) *cobra.Command {
	var (
		stay  stayFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "hotel <id>",
		Short: "Show a hotel page with photos and room prices",
		Long: `Show one hotel. Room prices are polled when stay dates are given.

On a terminal the page is interactive; with --plain, or when stdout is not
a terminal, a text report is printed once prices settle.`,
		Args: cobra.ExactArgs(1),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errs.New("hotel id is required")
			}

			var query *booking.PriceQuery
			if stay.dated() {
				params, _, err := stay.params()
				if err != nil {
					return err
				}
				e.shared.SetParams(params)
				q := params.PriceQuery(id)
				query = &q
			}

			interactive := !plain && isTerminal(cmd.OutOrStdout())
			if interactive {
				e.quiet()
			}

			client := e.client()
			detail := fetch.NewDetailFetcher(client, e.logger)
			prices := fetch.NewPriceFetcher(client, e.shared, e.pollConfig(), e.metrics, e.logger)

			if interactive {
				return e.runPage(cmd.Context(), id, query, detail, prices)
			}
			return printHotel(cmd.Context(), cmd.OutOrStdout(), id, query, detail, prices)
		}),
	}

	stay.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print a text report instead of the interactive page")
	return cmd
}

func (e *env) runPage(
	ctx context.Context,
	id string,
	query *booking.PriceQuery,
	detail *fetch.DetailFetcher,
	prices *fetch.PriceFetcher,
) error {
	m := tui.New(ctx, detail, prices, tui.Options{
		HotelID:  id,
		Query:    query,
		Interval: e.cfg.Carousel.Interval,
	})

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	m.Teardown()
	prices.Wait()
	if err != nil {
		return errs.Wrap(err, "run hotel page")
	}
	return nil
}

// printHotel loads the hotel and, when query is set, waits for prices to
// settle before writing a text report.
func printHotel(
	ctx context.Context,
	w io.Writer,
	id string,
	query *booking.PriceQuery,
	detail *fetch.DetailFetcher,
	prices *fetch.PriceFetcher,
) error {
	defer detail.Close()
	defer prices.Wait()
	defer prices.Stop()

	detail.Load(ctx, id)
	if query != nil {
		if err := prices.Start(ctx, *query); err != nil {
			return err
		}
	}

	hotel, err := detail.Await(ctx)
	if err != nil {
		return err
	}
	if hotel.Status == fetch.StatusError {
		return errs.Wrapf(hotel.Err, "load hotel %s", id)
	}
	writeHotel(w, hotel.Value)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rooms")
	if query == nil {
		fmt.Fprintln(w, "  give --checkin and --checkout to see room prices")
		return nil
	}

	rooms, err := prices.Await(ctx)
	if err != nil {
		return err
	}
	switch rooms.Status {
	case fetch.StatusError:
		return errs.Wrap(rooms.Err, "fetch room prices")
	case fetch.StatusTimedOut:
		fmt.Fprintf(w, "  prices did not arrive after %d attempts\n", rooms.Attempt)
		return nil
	}
	if len(rooms.Value) == 0 {
		fmt.Fprintln(w, "  no rooms available")
		return nil
	}
	for _, r := range rooms.Value {
		fmt.Fprintf(w, "  %s  %s\n", r.Description, tui.FormatPrice(r.Price))
		if len(r.Amenities) > 0 {
			fmt.Fprintf(w, "    %s\n", tui.Summarize(r.Amenities, tui.RoomAmenities))
		}
		for _, img := range r.Images {
			fmt.Fprintf(w, "    %s\n", img)
		}
	}
	return nil
}

func writeHotel(w io.Writer, h *booking.Hotel) {
	fmt.Fprintln(w, h.Name)
	if h.Address != "" {
		fmt.Fprintln(w, h.Address)
	}
	if h.Rating > 0 {
		fmt.Fprintf(w, "rating %s\n", rating(h.Rating))
	}
	if h.Distance > 0 {
		fmt.Fprintf(w, "Distance: %.2fm\n", h.Distance)
	}
	if h.Price > 0 {
		fmt.Fprintf(w, "from %s\n", tui.FormatPrice(h.Price))
	}
	if city := h.OriginalMetadata.City; city != "" {
		fmt.Fprintf(w, "\nStay in the heart of %s\n", city)
	}
	if h.Description != "" {
		fmt.Fprintf(w, "\n%s\n", h.Description)
	}

	if line := tui.TrustYouLine(h.TrustYou.Score); line != "" {
		fmt.Fprintf(w, "\nTrustYou Scores\n  %s\n", line)
	}
	if cats := h.SortedCategories(); len(cats) > 0 {
		fmt.Fprintln(w, "\nCategories")
		for _, c := range cats {
			fmt.Fprintf(w, "  %s: %s\n", c.Name, tui.FormatScore(c.Score))
		}
	}
	if len(h.AmenitiesRatings) > 0 {
		fmt.Fprintln(w, "\nAmenities Ratings")
		for _, r := range h.AmenitiesRatings {
			fmt.Fprintf(w, "  %s %s\n", r.Name, tui.FormatScore(r.Score))
		}
	}
	// Plain output cannot be expanded later, so every amenity is listed.
	if names := h.AmenityNames(); len(names) > 0 {
		fmt.Fprintf(w, "\nAmenities\n  %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "\nPerfect for a %s stay!\n", h.StayType())

	photos := h.Photos()
	fmt.Fprintf(w, "\nPhotos (%d)\n", len(photos))
	for _, p := range photos {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

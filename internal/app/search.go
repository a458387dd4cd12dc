package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alex-user-go/hotelview/internal/booking"
	"github.com/alex-user-go/hotelview/internal/errs"
	"github.com/alex-user-go/hotelview/internal/search"
	"github.com/alex-user-go/hotelview/internal/searchctx"
	"github.com/alex-user-go/hotelview/internal/tui"
)

func newSearchCmd(e *env) *cobra.Command {
	var (
		stay    stayFlags
		prices  bool
		refresh bool
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List hotels for a destination and stay",
		Example: `  hotelview search -d "Rome, Italy" --checkin 2025-12-01 --checkout 2025-12-04 --adults 1
  hotelview search -d WD0M --checkin 2025-12-01 --checkout 2025-12-03 --prices --limit 10`,
		Args: cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, _ []string) error {
			params, dest, err := stay.params()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = e.cfg.Search.Limit
			}

			s := search.NewSearcher(e.client(), e.shared, e.pollConfig(), e.metrics, e.logger,
				search.WithLimit(limit))

			run := s.Search
			if refresh {
				run = s.Refresh
			}
			res, err := run(cmd.Context(), params)
			if err != nil {
				return errs.Wrap(err, "search hotels")
			}

			listings := make([]search.Listing, len(res.Hotels))
			for i, h := range res.Hotels {
				listings[i].Hotel = h
			}
			if prices && len(res.Hotels) > 0 {
				if listings, err = s.WithPrices(cmd.Context(), params, res.Hotels); err != nil {
					return errs.Wrap(err, "fetch room prices")
				}
			}

			renderSearch(cmd.OutOrStdout(), dest, params, res, listings, prices)
			return nil
		}),
	}

	stay.register(cmd)
	cmd.Flags().BoolVar(&prices, "prices", false, "poll room prices and show the cheapest room of each hotel")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore any cached hotel list for this search")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of hotels shown (default HOTELVIEW_SEARCH_LIMIT)")
	return cmd
}

func renderSearch(
	w io.Writer,
	dest search.Destination,
	params searchctx.SearchParams,
	res *search.Result,
	listings []search.Listing,
	withPrices bool,
) {
	fmt.Fprintf(w, "%s · %s to %s · %d nights · %d guests · %d rooms\n",
		dest.Label(),
		params.CheckIn.Format(booking.DateLayout),
		params.CheckOut.Format(booking.DateLayout),
		params.Nights(), params.Guests(), params.Rooms)

	if len(listings) == 0 {
		fmt.Fprintln(w, "no hotels found")
		return
	}

	headers := []string{"ID", "HOTEL", "RATING", "FROM"}
	if withPrices {
		headers = append(headers, "CHEAPEST ROOM")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, l := range listings {
		row := []string{l.ID, l.Name, rating(l.Rating), tui.FormatPrice(l.Price)}
		if withPrices {
			row = append(row, cheapestRoom(l))
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.String())

	summary := fmt.Sprintf("%d of %d hotels", len(listings), res.Total)
	if res.Cached {
		summary += " (cached)"
	}
	fmt.Fprintln(w, summary)
}

func rating(r float64) string {
	if r <= 0 {
		return "-"
	}
	return tui.FormatRating(r)
}

func cheapestRoom(l search.Listing) string {
	switch {
	case l.Cheapest != nil:
		return l.Cheapest.Description + " " + tui.FormatPrice(l.Cheapest.Price)
	case errs.Is(l.Err, search.ErrNoPrices):
		return "no rooms"
	default:
		return "unavailable"
	}
}

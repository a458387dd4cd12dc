package app

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the hotelview root command with its subcommands.
func NewRootCmd() *cobra.Command {
	e := &env{}
	var (
		debug  bool
		apiURL string
	)

	cmd := &cobra.Command{
		Use:   "hotelview",
		Short: "Search hotels and browse room prices",
		Long: `hotelview searches a booking API for hotels in a destination and shows
a hotel page with its photos and live room prices.

Configuration is read from HOTELVIEW_* environment variables; flags win.`,
		Example: `  # Find a destination
  hotelview destinations mar

  # List hotels with their cheapest room
  hotelview search --destination "Marina Bay, Singapore" --checkin 2025-12-01 --checkout 2025-12-03 --prices

  # Open a hotel page
  hotelview hotel diH7 --destination WD0M --checkin 2025-12-01 --checkout 2025-12-03`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, apiURL, debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "booking API base URL (overrides HOTELVIEW_API_URL)")

	cmd.AddCommand(
		newSearchCmd(e),
		newHotelCmd(e),
		newDestinationsCmd(e),
	)
	return cmd
}

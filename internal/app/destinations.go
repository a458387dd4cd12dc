package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alex-user-go/hotelview/internal/search"
)

func newDestinationsCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "destinations [prefix]",
		Aliases: []string{"dest"},
		Short:   "Suggest destinations whose name starts with prefix",
		Args:    cobra.MaximumNArgs(1),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			dests, err := search.DefaultDestinations()
			if err != nil {
				return err
			}

			prefix := strings.Join(args, "")
			matches := dests.Suggest(prefix, limit)
			e.logger.Debug("destination suggestions", "prefix", prefix, "matches", len(matches))

			w := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintf(w, "no destination starts with %q\n", prefix)
				return nil
			}
			for _, d := range matches {
				fmt.Fprintf(w, "%s\t%s\n", d.UID, d.Label())
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of suggestions (0 for all)")
	return cmd
}
